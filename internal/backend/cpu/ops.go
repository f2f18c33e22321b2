// Package cpu implements the sampling compute substrate on the host CPU.
// Batch primitives fan rows out across a bounded worker group; individual
// rows are mutually independent, so ordering between them is unconstrained.
package cpu

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/seqlogic/nucleus/internal/tensor"
)

type Ops struct {
	workers int
}

func New() *Ops {
	return &Ops{workers: runtime.GOMAXPROCS(0)}
}

func (o *Ops) Name() string { return "cpu" }

// forEachRow runs fn for every row index, in parallel when the batch is
// large enough to pay for the goroutine fan-out.
func (o *Ops) forEachRow(rows int, fn func(i int)) {
	if rows <= 1 || o.workers <= 1 {
		for i := 0; i < rows; i++ {
			fn(i)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(o.workers)
	for i := 0; i < rows; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

func (o *Ops) ScaleRows(dst, src *tensor.Mat, divisors []float32) {
	o.forEachRow(src.R, func(i int) {
		inv := 1.0 / divisors[i]
		d, s := dst.Row(i), src.Row(i)
		for j := range s {
			d[j] = s[j] * inv
		}
	})
}

func (o *Ops) ArgmaxRows(m *tensor.Mat, out []int32) {
	o.forEachRow(m.R, func(i int) {
		row := m.Row(i)
		best := 0
		bestV := row[0]
		for j := 1; j < len(row); j++ {
			if row[j] > bestV {
				bestV = row[j]
				best = j
			}
		}
		out[i] = int32(best)
	})
}

func (o *Ops) SoftmaxRows(dst, src *tensor.Mat) {
	o.forEachRow(src.R, func(i int) {
		d, s := dst.Row(i), src.Row(i)
		maxV := rowMax(s)
		var sum float64
		for j := range s {
			e := math.Exp(float64(s[j] - maxV))
			d[j] = float32(e)
			sum += e
		}
		inv := float32(1.0 / sum)
		for j := range d {
			d[j] *= inv
		}
	})
}

func (o *Ops) LogSoftmaxRows(dst, src *tensor.Mat) {
	o.forEachRow(src.R, func(i int) {
		d, s := dst.Row(i), src.Row(i)
		maxV := rowMax(s)
		var sum float64
		for j := range s {
			sum += math.Exp(float64(s[j] - maxV))
		}
		logSum := float32(math.Log(sum))
		for j := range s {
			d[j] = s[j] - maxV - logSum
		}
	})
}

func (o *Ops) SelectRows(out, a, b []int32, pick []bool) {
	for i := range out {
		if pick[i] {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
}

// SyncHost is the per-step host materialization fence. CPU kernels complete
// before their batch call returns, so there is nothing left to wait for.
func (o *Ops) SyncHost() {}

func rowMax(row []float32) float32 {
	maxV := row[0]
	for _, v := range row[1:] {
		if v > maxV {
			maxV = v
		}
	}
	return maxV
}
