package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"playdex/internal/analysis"
)

// Compare reports which providers have snapshots in the data directory and
// what each upstream exposes.
func (r *Runner) Compare(ctx context.Context, cmd *cli.Command) error {
	dataDir := cmd.String("data-dir")
	if dataDir == "" {
		dataDir = r.config.Output.DataDir
	}

	comparison, err := analysis.ComparePlatforms(dataDir)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(comparison, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", analysis.RenderComparison(comparison))
}

// compareCommand builds the compare command definition.
func compareCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "compare",
		Usage: "Compare indexed snapshots across providers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Snapshot directory to scan",
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
		Action: r.Compare,
	}
}
