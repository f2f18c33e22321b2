package main

import (
	"context"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/seqlogic/nucleus/internal/backend"
	"github.com/seqlogic/nucleus/internal/harness"
	"github.com/seqlogic/nucleus/internal/logits"
	"github.com/seqlogic/nucleus/internal/toy"
)

// benchCmd measures selection throughput on synthetic logits.
func benchCmd() *cli.Command {
	var (
		rows        int64
		vocab       int64
		hidden      int64
		steps       int64
		temp        float64
		topK        int64
		topP        float64
		seed        int64
		maxLogprobs int64
	)

	return &cli.Command{
		Name:  "bench",
		Usage: "Benchmark sampling throughput on synthetic logits",
		Flags: append(append(backendFlags(), loggingFlags()...),
			&cli.Int64Flag{
				Name:        "rows",
				Aliases:     []string{"b"},
				Usage:       "batch rows (in-flight sequences)",
				Value:       8,
				Destination: &rows,
			},
			&cli.Int64Flag{
				Name:        "vocab",
				Aliases:     []string{"v"},
				Usage:       "vocabulary size",
				Value:       4096,
				Destination: &vocab,
			},
			&cli.Int64Flag{
				Name:        "hidden",
				Usage:       "hidden size of the synthetic logit source",
				Value:       64,
				Destination: &hidden,
			},
			&cli.Int64Flag{
				Name:        "steps",
				Aliases:     []string{"n"},
				Usage:       "number of selection steps",
				Value:       200,
				Destination: &steps,
			},
			&cli.Float64Flag{
				Name:        "temp",
				Aliases:     []string{"temperature", "t"},
				Usage:       "sampling temperature (0 = greedy)",
				Value:       0.8,
				Destination: &temp,
			},
			&cli.Int64Flag{
				Name:        "top-k",
				Usage:       "top-k filter (0 = disabled)",
				Value:       40,
				Destination: &topK,
			},
			&cli.Float64Flag{
				Name:        "top-p",
				Usage:       "top-p nucleus filter (0 or 1 = disabled)",
				Value:       0.95,
				Destination: &topP,
			},
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "base seed; row i draws from seed+i",
				Value:       1,
				Destination: &seed,
			},
			&cli.Int64Flag{
				Name:        "max-logprobs",
				Usage:       "logprob diagnostics per row (0 = disabled)",
				Value:       0,
				Destination: &maxLogprobs,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyBenchConfig(cmd, LoadConfig(), &temp, &topK, &seed, &topP, &maxLogprobs)
			log := buildLogger()

			ops, err := backend.New(backendName)
			if err != nil {
				return err
			}

			b := int(rows)
			policy := &logits.Policy{
				Temperature: make([]float32, b),
				TopK:        make([]int, b),
				TopP:        make([]float32, b),
				Generators:  make([]*logits.Generator, b),
			}
			for i := 0; i < b; i++ {
				policy.Temperature[i] = float32(temp)
				policy.TopK[i] = int(topK)
				policy.TopP[i] = float32(topP)
				policy.Generators[i] = logits.NewGenerator(seed + int64(i))
			}
			policy.DeriveFlags()

			runner := &harness.Runner{
				Source:         toy.NewModel(b, int(vocab), int(hidden), seed),
				Sampler:        logits.New(ops),
				Policy:         policy,
				MaxNumLogprobs: int(maxLogprobs),
			}

			log.Info("starting bench",
				"backend", ops.Name(), "rows", b, "vocab", vocab, "steps", steps,
				"temp", temp, "top_k", topK, "top_p", topP)
			stats, err := runner.Run(ctx, int(steps))
			if err != nil {
				return err
			}
			log.Info("bench complete",
				"steps", stats.Steps, "tokens", stats.TokensSampled,
				"duration", stats.Duration.String(), "tps", stats.TPS)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}
}
