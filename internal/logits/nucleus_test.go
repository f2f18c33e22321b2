package logits

import (
	"math"
	"testing"

	"github.com/seqlogic/nucleus/internal/tensor"
)

func TestTopKOneAlwaysArgmax(t *testing.T) {
	batch := tensor.NewMatFromData(1, 6, []float32{-1, 5, 3, 7, 2, 6})

	for seed := int64(0); seed < 25; seed++ {
		for _, topP := range []float32{0, 0.3, 0.9, 1.0} {
			policy := uniformPolicy(1, 1.0, topP, 1, seed)
			out, err := newTestSampler().Sample(&batch, policy, 0)
			if err != nil {
				t.Fatalf("sample: %v", err)
			}
			if out.SampledTokenIDs[0] != 3 {
				t.Fatalf("seed %d top_p %v: got %d, want argmax 3", seed, topP, out.SampledTokenIDs[0])
			}
		}
	}
}

func TestDominantTokenSurvivesTopP(t *testing.T) {
	// The first token holds well over half the mass, so a 0.5 nucleus keeps
	// only it and every draw is deterministic.
	batch := tensor.NewMatFromData(1, 5, []float32{10, 0, 0, 0, 0})
	policy := uniformPolicy(1, 1.0, 0.5, 0, 7)
	s := newTestSampler()

	for i := 0; i < 20; i++ {
		out, err := s.Sample(&batch, policy, 0)
		if err != nil {
			t.Fatalf("sample: %v", err)
		}
		if out.SampledTokenIDs[0] != 0 {
			t.Fatalf("draw %d escaped the nucleus: token %d", i, out.SampledTokenIDs[0])
		}
	}
}

func TestTopKBeyondVocabIsNoOp(t *testing.T) {
	data := []float32{0.4, 1.1, -0.3, 2.2, 0.9}

	run := func(topK int) []int32 {
		batch := tensor.NewMatFromData(1, 5, data)
		policy := uniformPolicy(1, 0.8, 0, topK, 99)
		s := newTestSampler()
		var toks []int32
		for i := 0; i < 40; i++ {
			out, err := s.Sample(&batch, policy, 0)
			if err != nil {
				t.Fatalf("sample: %v", err)
			}
			toks = append(toks, out.SampledTokenIDs[0])
		}
		return toks
	}

	disabled := run(0)
	oversized := run(11)
	for i := range disabled {
		if disabled[i] != oversized[i] {
			t.Fatalf("step %d: top_k=11 drew %d, top_k disabled drew %d", i, oversized[i], disabled[i])
		}
	}
}

func TestBatchFlagsGateFilters(t *testing.T) {
	// Schedulers are trusted on the batch-wide flags: when NoTopK holds,
	// per-row top_k values are not consulted at all.
	data := []float32{0.4, 1.1, -0.3, 2.2, 0.9}

	run := func(topK int, noTopK bool) []int32 {
		batch := tensor.NewMatFromData(1, 5, data)
		policy := uniformPolicy(1, 0.8, 0, topK, 21)
		policy.NoTopK = noTopK
		s := newTestSampler()
		var toks []int32
		for i := 0; i < 40; i++ {
			out, err := s.Sample(&batch, policy, 0)
			if err != nil {
				t.Fatalf("sample: %v", err)
			}
			toks = append(toks, out.SampledTokenIDs[0])
		}
		return toks
	}

	gated := run(1, true)     // top_k=1 present but flagged off
	disabled := run(0, false) // top_k genuinely disabled
	for i := range gated {
		if gated[i] != disabled[i] {
			t.Fatalf("step %d: flagged-off top_k drew %d, disabled top_k drew %d", i, gated[i], disabled[i])
		}
	}
}

func TestTopPOneIsNoOp(t *testing.T) {
	data := []float32{0.4, 1.1, -0.3, 2.2, 0.9}

	run := func(topP float32) []int32 {
		batch := tensor.NewMatFromData(1, 5, data)
		policy := uniformPolicy(1, 0.8, topP, 0, 17)
		s := newTestSampler()
		var toks []int32
		for i := 0; i < 40; i++ {
			out, err := s.Sample(&batch, policy, 0)
			if err != nil {
				t.Fatalf("sample: %v", err)
			}
			toks = append(toks, out.SampledTokenIDs[0])
		}
		return toks
	}

	disabled := run(0)
	one := run(1.0)
	for i := range disabled {
		if disabled[i] != one[i] {
			t.Fatalf("step %d: top_p=1.0 drew %d, top_p disabled drew %d", i, one[i], disabled[i])
		}
	}
}

// TestUnfilteredDrawMatchesSoftmax checks distributional convergence: with
// both filters disabled, empirical frequencies over many draws must approach
// the softmax of the logits.
func TestUnfilteredDrawMatchesSoftmax(t *testing.T) {
	data := []float32{0, 1, 2, 3}
	batch := tensor.NewMatFromData(1, 4, data)
	policy := uniformPolicy(1, 1.0, 0, 0, 5)
	s := newTestSampler()

	const trials = 20000
	counts := make([]int, 4)
	for i := 0; i < trials; i++ {
		out, err := s.Sample(&batch, policy, 0)
		if err != nil {
			t.Fatalf("sample: %v", err)
		}
		counts[out.SampledTokenIDs[0]]++
	}

	var sum float64
	expected := make([]float64, 4)
	for i, x := range data {
		expected[i] = math.Exp(float64(x))
		sum += expected[i]
	}
	for i := range expected {
		expected[i] /= sum
		got := float64(counts[i]) / trials
		if math.Abs(got-expected[i]) > 0.02 {
			t.Fatalf("token %d: empirical %.4f vs softmax %.4f", i, got, expected[i])
		}
	}
}

func TestGeneratorAdvancesOncePerDraw(t *testing.T) {
	// Two identically seeded generators: one threaded through the sampler,
	// one drawn from directly. Their streams must stay in lockstep.
	batch := tensor.NewMatFromData(1, 4, []float32{0, 1, 2, 3})
	gen := NewGenerator(31)
	shadow := NewGenerator(31)
	policy := &Policy{
		Temperature: []float32{1.0},
		TopK:        []int{2},
		TopP:        []float32{0.9},
		Generators:  []*Generator{gen},
	}
	policy.DeriveFlags()
	s := newTestSampler()

	const steps = 10
	for i := 0; i < steps; i++ {
		if _, err := s.Sample(&batch, policy, 0); err != nil {
			t.Fatalf("sample: %v", err)
		}
	}
	for j := 0; j < steps; j++ {
		shadow.Float64()
	}
	if got, want := gen.Float64(), shadow.Float64(); got != want {
		t.Fatalf("sampler consumed a different number of draws than one per step (%v vs %v)", got, want)
	}
}
