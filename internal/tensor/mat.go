package tensor

// Mat represents a dense row-major matrix of float32 values.
//
// R and C are the number of rows and columns respectively. Stride is the
// number of elements between the starts of two consecutive rows; for
// row-major matrices this equals C. Data holds the flattened values.
//
// A Mat carrying logits has one row per in-flight sequence and one column
// per vocabulary entry. Row order is caller-defined and preserved.
//
// Mat does not perform any memory safety beyond the checks performed by
// Go's slice types; out-of-range indices will panic.
type Mat struct {
	R, C   int
	Stride int
	Data   []float32
}

// NewMat allocates a new matrix with the given number of rows and columns.
// The underlying slice is zero initialised. The stride is set to the
// number of columns.
func NewMat(r, c int) Mat {
	if r < 0 || c < 0 {
		panic("negative dimension for matrix")
	}
	return Mat{
		R:      r,
		C:      c,
		Stride: c,
		Data:   make([]float32, r*c),
	}
}

// NewMatFromData creates a matrix from existing data without copying.
// It checks that the data length matches r*c.
func NewMatFromData(r, c int, data []float32) Mat {
	if r*c != len(data) {
		panic("data length mismatch")
	}
	return Mat{
		R:      r,
		C:      c,
		Stride: c,
		Data:   data,
	}
}

// Row returns a view of row i. Mutating the returned slice mutates the matrix.
func (m *Mat) Row(i int) []float32 {
	off := i * m.Stride
	return m.Data[off : off+m.C]
}

// Clone returns a deep copy of the matrix with a compact stride.
func (m *Mat) Clone() Mat {
	out := NewMat(m.R, m.C)
	for i := 0; i < m.R; i++ {
		copy(out.Row(i), m.Row(i))
	}
	return out
}
