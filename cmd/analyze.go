package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"playdex/internal/analysis"
	"playdex/internal/shared"
)

// Analyze loads a saved snapshot and prints an aggregate report.
func (r *Runner) Analyze(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("snapshot")
	if path == "" {
		return fmt.Errorf("%w: snapshot path is required", shared.ErrMissingArgument)
	}

	snapshot, err := analysis.LoadSnapshot(path)
	if err != nil {
		return err
	}

	report := analysis.Analyze(snapshot, int(cmd.Int("top")))

	if cmd.Bool("json") {
		return r.writeJSON(report, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", analysis.RenderText(report))
}

// analyzeCommand builds the analyze command definition.
func analyzeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Report aggregate statistics for a saved snapshot",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "snapshot"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "top",
				Usage: "Rows in ranked listings",
				Value: analysis.DefaultTopN,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Analyze,
	}
}
