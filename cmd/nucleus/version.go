package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/seqlogic/nucleus/internal/version"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Println("nucleus", version.String())
			if bt := version.Resolve().BuildTime; bt != "" {
				fmt.Println("built:", bt)
			}
			return nil
		},
	}
}
