package logits

import (
	"github.com/seqlogic/nucleus/internal/backend"
	"github.com/seqlogic/nucleus/internal/tensor"
)

// Sampler selects the next token for every row of a logits batch under a
// per-row sampling policy. It owns no state across calls beyond reusable
// scratch buffers, so a Sampler must not run two calls concurrently.
type Sampler struct {
	ops backend.Ops

	// scratch reused across rows and calls
	divisors []float32
	probs    []float64
	topIdx   []int
	topVal   []float32
	sortIdx  []int
}

// New returns a sampler running on the given compute substrate.
func New(ops backend.Ops) *Sampler {
	return &Sampler{ops: ops}
}

// Sample runs one selection step over the batch.
//
// The batch carries one row of pre-temperature logits per in-flight
// sequence; the policy carries that sequence's sampling parameters in the
// matching row. maxNumLogprobs > 0 additionally returns that many
// log-probability diagnostics per row, computed from the unscaled logits.
//
// A call either returns a full batch result or fails outright; there is no
// partial delivery and no internal retry.
func (s *Sampler) Sample(batch *tensor.Mat, policy *Policy, maxNumLogprobs int) (*Output, error) {
	if err := policy.validate(batch.R, batch.C); err != nil {
		return nil, err
	}

	// Temperature scaling. Rows below the sampling epsilon divide by 1.0 so
	// the ordering their greedy pick needs survives untouched.
	divisors := s.divisorBuf(batch.R)
	for i, t := range policy.Temperature {
		if t < SamplingEps {
			t = 1.0
		}
		divisors[i] = t
	}
	scaled := tensor.NewMat(batch.R, batch.C)
	s.ops.ScaleRows(&scaled, batch, divisors)

	sampled := make([]int32, batch.R)
	if policy.AllGreedy {
		// Argmax only: no draws, no sorting.
		s.ops.ArgmaxRows(&scaled, sampled)
	} else {
		random := make([]int32, batch.R)
		s.sampleNucleus(&scaled, policy, random)
		if policy.AllRandom {
			sampled = random
		} else {
			// Mixed batch: both paths run for every row and one result is
			// discarded per row by a single elementwise select. Branching
			// per row instead would serialize the batched work.
			greedy := make([]int32, batch.R)
			s.ops.ArgmaxRows(&scaled, greedy)
			pickGreedy := make([]bool, batch.R)
			for i, t := range policy.Temperature {
				pickGreedy[i] = t < SamplingEps
			}
			s.ops.SelectRows(sampled, greedy, random, pickGreedy)
		}
	}

	out := &Output{SampledTokenIDs: sampled}
	if maxNumLogprobs > 0 {
		out.LogprobTokenIDs, out.Logprobs = s.topLogprobs(batch, maxNumLogprobs)
	}

	// The step's only host materialization fence, after the full output
	// record is assembled.
	s.ops.SyncHost()
	return out, nil
}

func (s *Sampler) divisorBuf(n int) []float32 {
	if cap(s.divisors) < n {
		s.divisors = make([]float32, n)
	}
	return s.divisors[:n]
}

func (s *Sampler) probBuf(n int) []float64 {
	if cap(s.probs) < n {
		s.probs = make([]float64, n)
	}
	return s.probs[:n]
}

func (s *Sampler) idxBuf(n int) []int {
	if cap(s.sortIdx) < n {
		s.sortIdx = make([]int, n)
	}
	return s.sortIdx[:n]
}
