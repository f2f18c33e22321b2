package toy

import "testing"

func TestNextLogitsDeterministic(t *testing.T) {
	a := NewModel(2, 16, 4, 42)
	b := NewModel(2, 16, 4, 42)

	prev := []int32{3, 7}
	la := a.NextLogits(prev)
	lb := b.NextLogits(prev)
	for i := range la.Data {
		if la.Data[i] != lb.Data[i] {
			t.Fatalf("identically seeded models diverged at %d", i)
		}
	}
}

func TestNextLogitsDependOnPrevToken(t *testing.T) {
	m := NewModel(1, 16, 4, 1)
	a := m.NextLogits([]int32{1})
	b := m.NextLogits([]int32{2})

	same := true
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("logits identical for different prefixes")
	}
}

func TestNextLogitsWrapsTokenIndex(t *testing.T) {
	m := NewModel(1, 8, 4, 1)
	a := m.NextLogits([]int32{2})
	b := m.NextLogits([]int32{10})
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("token 10 should reduce to token 2 in a vocab of 8")
		}
	}
}
