package main

import (
	"fmt"

	"github.com/llwatkin/connect-4-starter/internal/engine"
	"github.com/llwatkin/connect-4-starter/internal/service/bot"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(flags *engineFlags) *cobra.Command {
	var player int

	cmd := &cobra.Command{
		Use:   "analyze [position]",
		Short: "Print the best move and per-column scores for a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			svc, err := bot.NewService(cfg, flags.logger())
			if err != nil {
				return err
			}

			pos := engine.Position(args[0])
			side := pos.ToMove()
			if player != 0 {
				side = engine.Player(player - 1)
			}

			analysis, err := svc.Analyze(cmd.Context(), pos, side, flags.depth)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderBoard(out, cfg.Geometry, pos)
			switch {
			case analysis.Winner != 0:
				fmt.Fprintf(out, "winner: %s\n", playerLabel(analysis.Winner.Engine()))
				return nil
			case analysis.Result == nil:
				fmt.Fprintln(out, "draw: board is full")
				return nil
			}

			res := analysis.Result
			fmt.Fprintf(out, "to move: %s\n", playerLabel(side))
			for _, cs := range res.Scores {
				bound := ""
				if !cs.Exact {
					bound = " (bound)"
				}
				fmt.Fprintf(out, "  column %d: %d%s\n", cs.Column, cs.Score, bound)
			}
			fmt.Fprintf(out, "best: column %d row %d score %d depth %d\n", res.Move.Column, res.Move.Row, res.Score, res.Depth)
			fmt.Fprintf(out, "nodes: %d cutoffs: %d elapsed: %s\n", res.Stats.Nodes, res.Stats.Cutoffs, res.Stats.Elapsed)
			return nil
		},
	}
	cmd.Flags().IntVarP(&player, "player", "p", 0, "side to search for (1 or 2, default: inferred)")
	return cmd
}
