package main

import (
	"fmt"
	"time"

	"github.com/llwatkin/connect-4-starter/internal/config"
	"github.com/llwatkin/connect-4-starter/internal/engine"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// engineFlags are shared by every subcommand.
type engineFlags struct {
	columns  int
	rows     int
	connect  int
	table    string
	depth    int
	budget   time.Duration
	parallel bool
	verbose  bool
}

func (f *engineFlags) config() (config.EngineConfig, error) {
	geo := engine.Geometry{Columns: f.columns, Rows: f.rows, ConnectLength: f.connect}
	if err := geo.Check(); err != nil {
		return config.EngineConfig{}, err
	}
	table, err := engine.ParseScoreTable(f.table)
	if err != nil {
		return config.EngineConfig{}, fmt.Errorf("--table: %w", err)
	}
	return config.EngineConfig{
		Geometry:   geo,
		Depth:      f.depth,
		TimeBudget: f.budget,
		Parallel:   f.parallel,
		ScoreTable: table,
	}, nil
}

func (f *engineFlags) logger() *zap.Logger {
	if !f.verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func newRootCmd() *cobra.Command {
	flags := &engineFlags{}

	rootCmd := &cobra.Command{
		Use:           "connect4",
		Short:         "Connect-N engine: analyse positions and play against the bot",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flags.columns, "columns", engine.Standard.Columns, "board columns")
	pf.IntVar(&flags.rows, "rows", engine.Standard.Rows, "board rows")
	pf.IntVar(&flags.connect, "connect", engine.Standard.ConnectLength, "pieces in a row needed to win")
	pf.StringVar(&flags.table, "table", engine.DefaultScoreTable.String(), "evaluation score table")
	pf.IntVarP(&flags.depth, "depth", "d", engine.DefaultDepth, "search depth in plies")
	pf.DurationVar(&flags.budget, "budget", 0, "time budget per move (enables iterative deepening)")
	pf.BoolVar(&flags.parallel, "parallel", false, "search root moves in parallel")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log search progress")

	rootCmd.AddCommand(
		newAnalyzeCmd(flags),
		newCountCmd(flags),
		newPlayCmd(flags),
	)
	return rootCmd
}
