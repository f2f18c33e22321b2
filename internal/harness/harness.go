// Package harness drives the selection engine through multi-step runs. It
// stands in for the external batching scheduler in benchmarks and tests:
// it owns the policy and its generators across steps and feeds each step's
// sampled tokens back into the logit source.
package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/seqlogic/nucleus/internal/logits"
	"github.com/seqlogic/nucleus/internal/tensor"
)

// Source produces one logits batch per step, one row per sequence. prev
// holds the tokens sampled at the previous step, or nil on the first step.
type Source interface {
	Rows() int
	Vocab() int
	NextLogits(prev []int32) tensor.Mat
}

type Stats struct {
	Steps         int
	TokensSampled int
	Duration      time.Duration
	TPS           float64
}

type Runner struct {
	Source         Source
	Sampler        *logits.Sampler
	Policy         *logits.Policy
	MaxNumLogprobs int

	// OnStep, when set, observes every step's output.
	OnStep func(step int, out *logits.Output)
}

// Run executes the step loop for a fixed number of steps.
func (r *Runner) Run(ctx context.Context, steps int) (Stats, error) {
	var stats Stats
	start := time.Now()

	var prev []int32
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		batch := r.Source.NextLogits(prev)
		out, err := r.Sampler.Sample(&batch, r.Policy, r.MaxNumLogprobs)
		if err != nil {
			return stats, fmt.Errorf("sampling step %d: %w", i, err)
		}
		prev = out.SampledTokenIDs
		stats.Steps++
		stats.TokensSampled += len(prev)
		if r.OnStep != nil {
			r.OnStep(i, out)
		}
	}

	stats.Duration = time.Since(start)
	if stats.Duration.Seconds() > 0 {
		stats.TPS = float64(stats.TokensSampled) / stats.Duration.Seconds()
	}
	return stats, nil
}
