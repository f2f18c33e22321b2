package main

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/seqlogic/nucleus/internal/api"
	"github.com/seqlogic/nucleus/internal/backend"
	"github.com/seqlogic/nucleus/internal/logits"
)

// sampleCmd runs one selection step over a scenario file and prints the
// result as JSON. The scenario format is the same JSON body the serve
// command accepts on /v1/sample.
func sampleCmd() *cli.Command {
	var (
		scenarioPath string
		maxLogprobs  int64
	)

	return &cli.Command{
		Name:  "sample",
		Usage: "Run one sampling step over a scenario file",
		Flags: append(append(backendFlags(), loggingFlags()...),
			&cli.StringFlag{
				Name:        "scenario",
				Aliases:     []string{"f"},
				Usage:       "path to scenario JSON (rows of logits and per-row policy)",
				Required:    true,
				Destination: &scenarioPath,
			},
			&cli.Int64Flag{
				Name:        "max-logprobs",
				Usage:       "override the scenario's max_num_logprobs",
				Value:       -1,
				Destination: &maxLogprobs,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyCommonConfig(cmd, LoadConfig())
			log := buildLogger()

			data, err := os.ReadFile(scenarioPath)
			if err != nil {
				return fmt.Errorf("read scenario: %w", err)
			}
			var req api.SampleRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("parse scenario: %w", err)
			}
			if maxLogprobs >= 0 {
				req.MaxNumLogprobs = int(maxLogprobs)
			}

			ops, err := backend.New(backendName)
			if err != nil {
				return err
			}
			log.Debug("sampling scenario", "path", scenarioPath, "rows", len(req.Rows), "backend", ops.Name())

			service := api.NewSamplingService(logits.New(ops), nil)
			resp, err := service.SampleBatch(&req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
}
