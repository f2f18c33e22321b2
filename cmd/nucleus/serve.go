package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/seqlogic/nucleus/internal/api"
	"github.com/seqlogic/nucleus/internal/backend"
	"github.com/seqlogic/nucleus/internal/logits"
)

// serveCmd exposes the selection engine over HTTP for debugging and
// integration testing.
func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		rps         float64
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the sampling debug API",
		Flags: append(append(backendFlags(), loggingFlags()...),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.Float64Flag{
				Name:        "rate-limit",
				Usage:       "max requests per second (0 = unlimited)",
				Value:       50,
				Destination: &rps,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyServeConfig(cmd, LoadConfig(), &addr, &rps)
			log := buildLogger()

			ops, err := backend.New(backendName)
			if err != nil {
				return err
			}

			service := api.NewSamplingService(logits.New(ops), api.NewSequenceStore())
			server := api.NewServer(service, rps, log)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", addr, "backend", ops.Name(), "rate_limit", rps)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
