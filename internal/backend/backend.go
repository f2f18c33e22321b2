package backend

import (
	"fmt"
	"strings"

	"github.com/seqlogic/nucleus/internal/backend/cpu"
	"github.com/seqlogic/nucleus/internal/tensor"
)

const (
	CPU  = "cpu"
	Auto = "auto"
)

// Ops is the vectorized compute substrate the selection engine runs on.
// Every method operates on whole batches; callers never dispatch per row.
// Results are substrate-resident until SyncHost fences them to the host,
// which callers do exactly once per sampling step.
type Ops interface {
	Name() string

	// ScaleRows writes src row i divided by divisors[i] into dst row i.
	// dst and src may be the same matrix. Divisors must be non-zero.
	ScaleRows(dst, src *tensor.Mat, divisors []float32)

	// ArgmaxRows writes the column index of each row's maximum value into
	// out. Ties resolve to the lowest index.
	ArgmaxRows(m *tensor.Mat, out []int32)

	// SoftmaxRows writes the softmax of each src row into dst.
	SoftmaxRows(dst, src *tensor.Mat)

	// LogSoftmaxRows writes the natural-log softmax of each src row into dst.
	LogSoftmaxRows(dst, src *tensor.Mat)

	// SelectRows writes a[i] where pick[i] is set and b[i] otherwise, for the
	// whole batch in one pass.
	SelectRows(out, a, b []int32, pick []bool)

	// SyncHost blocks until all work queued for the current step has
	// completed and its results are host-addressable.
	SyncHost()
}

// Normalize canonicalizes a backend name. An empty name selects Auto.
func Normalize(name string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(name))
	if backend == "" {
		return Auto, nil
	}
	switch backend {
	case CPU, Auto:
		return backend, nil
	default:
		return "", fmt.Errorf("unknown backend %q (expected auto or cpu)", backend)
	}
}

// New returns the compute substrate for the given backend name.
func New(name string) (Ops, error) {
	normalized, err := Normalize(name)
	if err != nil {
		return nil, err
	}
	switch normalized {
	case Auto, CPU:
		return cpu.New(), nil
	default:
		return nil, fmt.Errorf("backend %q not available", normalized)
	}
}
