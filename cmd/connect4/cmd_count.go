package main

import (
	"fmt"

	"github.com/llwatkin/connect-4-starter/internal/engine"
	"github.com/spf13/cobra"
)

func newCountCmd(flags *engineFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "count [position]",
		Short: "Compare nodes visited with and without alpha-beta pruning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			searcher, err := engine.NewSearcher(cfg.Geometry, engine.Options{Depth: cfg.Depth, Table: cfg.ScoreTable})
			if err != nil {
				return err
			}
			pos := engine.Position(args[0])
			if err := cfg.Geometry.Validate(pos); err != nil {
				return err
			}
			player := pos.ToMove()

			out := cmd.OutOrStdout()
			for depth := 1; depth <= cfg.Depth; depth++ {
				pruned, ps := searcher.FullWindow(pos, depth, player)
				plain, full := searcher.PlainNegamax(pos, depth, player)
				if pruned != plain {
					return fmt.Errorf("depth %d: pruned score %d differs from plain score %d", depth, pruned, plain)
				}
				fmt.Fprintf(out, "depth %d: score %d, alpha-beta %d nodes (%d cutoffs), plain %d nodes\n",
					depth, pruned, ps.Nodes, ps.Cutoffs, full.Nodes)
			}
			return nil
		},
	}
}
