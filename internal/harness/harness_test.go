package harness

import (
	"context"
	"testing"

	"github.com/seqlogic/nucleus/internal/backend/cpu"
	"github.com/seqlogic/nucleus/internal/logits"
	"github.com/seqlogic/nucleus/internal/toy"
)

func newPolicy(rows int, temp float32, seed int64) *logits.Policy {
	p := &logits.Policy{
		Temperature: make([]float32, rows),
		TopK:        make([]int, rows),
		TopP:        make([]float32, rows),
		Generators:  make([]*logits.Generator, rows),
	}
	for i := 0; i < rows; i++ {
		p.Temperature[i] = temp
		p.Generators[i] = logits.NewGenerator(seed + int64(i))
	}
	p.DeriveFlags()
	return p
}

func TestRunReproducible(t *testing.T) {
	run := func() []int32 {
		r := &Runner{
			Source:  toy.NewModel(2, 32, 8, 7),
			Sampler: logits.New(cpu.New()),
			Policy:  newPolicy(2, 0.8, 100),
		}
		var toks []int32
		r.OnStep = func(_ int, out *logits.Output) {
			toks = append(toks, out.SampledTokenIDs...)
		}
		stats, err := r.Run(context.Background(), 25)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if stats.Steps != 25 || stats.TokensSampled != 50 {
			t.Fatalf("unexpected stats: %+v", stats)
		}
		return toks
	}

	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("token %d differs between identically seeded runs", i)
		}
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{
		Source:  toy.NewModel(1, 16, 4, 1),
		Sampler: logits.New(cpu.New()),
		Policy:  newPolicy(1, 0.8, 1),
	}
	if _, err := r.Run(ctx, 10); err == nil {
		t.Fatalf("expected context error")
	}
}
