package logits

import "testing"

func TestDeriveFlags(t *testing.T) {
	cases := []struct {
		name   string
		temps  []float32
		topK   []int
		topP   []float32
		greedy bool
		random bool
		noTopK bool
		noTopP bool
	}{
		{
			name:  "all greedy",
			temps: []float32{0, 0, 1e-6}, topK: []int{0, 0, 0}, topP: []float32{0, 0, 0},
			greedy: true, random: false, noTopK: true, noTopP: true,
		},
		{
			name:  "all random",
			temps: []float32{0.7, 1.0}, topK: []int{40, 0}, topP: []float32{0.9, 0},
			greedy: false, random: true, noTopK: false, noTopP: false,
		},
		{
			name:  "mixed",
			temps: []float32{0, 0.7}, topK: []int{0, 0}, topP: []float32{0, 1.0},
			greedy: false, random: false, noTopK: true, noTopP: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Policy{Temperature: tc.temps, TopK: tc.topK, TopP: tc.topP}
			p.DeriveFlags()
			if p.AllGreedy != tc.greedy || p.AllRandom != tc.random {
				t.Fatalf("flags greedy=%v random=%v, want %v/%v", p.AllGreedy, p.AllRandom, tc.greedy, tc.random)
			}
			if p.NoTopK != tc.noTopK || p.NoTopP != tc.noTopP {
				t.Fatalf("flags noTopK=%v noTopP=%v, want %v/%v", p.NoTopK, p.NoTopP, tc.noTopK, tc.noTopP)
			}
		})
	}
}

func TestGeneratorReplay(t *testing.T) {
	a := NewGenerator(1234)
	b := NewGenerator(1234)
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("identically seeded generators diverged at draw %d", i)
		}
	}

	first := make([]float64, 5)
	a.Reset()
	for i := range first {
		first[i] = a.Float64()
	}
	a.Reset()
	for i := range first {
		if got := a.Float64(); got != first[i] {
			t.Fatalf("draw %d after reset: %v, want %v", i, got, first[i])
		}
	}
	if a.Seed() != 1234 {
		t.Fatalf("seed accessor: %d", a.Seed())
	}
}
