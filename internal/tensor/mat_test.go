package tensor

import "testing"

func TestNewMatFromDataLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on length mismatch")
		}
	}()
	NewMatFromData(2, 3, make([]float32, 5))
}

func TestRowIsView(t *testing.T) {
	m := NewMat(2, 3)
	m.Row(1)[2] = 7

	if m.Data[5] != 7 {
		t.Fatalf("row write did not land in backing data: %v", m.Data)
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := NewMatFromData(2, 2, []float32{1, 2, 3, 4})
	c := m.Clone()
	c.Row(0)[0] = 99

	if m.Row(0)[0] != 1 {
		t.Fatalf("clone aliases original data")
	}
	if c.R != 2 || c.C != 2 || c.Stride != 2 {
		t.Fatalf("unexpected clone shape: %+v", c)
	}
}
