package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/llwatkin/connect-4-starter/internal/domain"
	"github.com/llwatkin/connect-4-starter/internal/service/bot"
	"github.com/spf13/cobra"
)

func newPlayCmd(flags *engineFlags) *cobra.Command {
	var (
		difficulty string
		second     bool
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game against the engine in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			level, err := domain.ParseDifficulty(difficulty)
			if err != nil {
				return err
			}
			opts := []bot.Option{}
			if cmd.Flags().Changed("seed") {
				opts = append(opts, bot.WithRand(rand.New(rand.NewPCG(seed, seed))))
			}
			svc, err := bot.NewService(cfg, flags.logger(), opts...)
			if err != nil {
				return err
			}

			human := domain.Player1
			if second {
				human = domain.Player2
			}
			return playGame(cmd, svc, domain.NewGame(cfg.Geometry), human, level)
		},
	}
	cmd.Flags().StringVar(&difficulty, "difficulty", string(domain.DifficultyHard), "easy, medium or hard")
	cmd.Flags().BoolVar(&second, "second", false, "let the engine move first")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for the easy bot's random moves")
	return cmd
}

func playGame(cmd *cobra.Command, svc *bot.Service, g *domain.Game, human domain.PlayerID, level domain.Difficulty) error {
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())
	geo := g.Geometry()
	botName := domain.GetBotName(level)

	for !g.IsFinished() {
		renderBoard(out, geo, g.Position())

		if g.CurrentPlayer != human {
			decision, err := svc.Play(cmd.Context(), g, level)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s plays column %d\n", botName, decision.Column)
			continue
		}

		col, quit, err := readColumn(out, in, geo.Columns)
		if err != nil {
			return err
		}
		if quit {
			fmt.Fprintln(out, "bye")
			return nil
		}
		if _, err := g.MakeMove(human, col); err != nil {
			fmt.Fprintf(out, "%v, try again\n", err)
		}
	}

	renderBoard(out, geo, g.Position())
	switch {
	case g.Status == domain.StatusDraw:
		fmt.Fprintln(out, "draw")
	case g.WinnerID == human:
		fmt.Fprintln(out, "you win")
	default:
		fmt.Fprintf(out, "%s wins\n", botName)
	}
	return nil
}

// readColumn prompts until it gets a column number or q. EOF counts as quitting.
func readColumn(out io.Writer, in *bufio.Scanner, columns int) (col int, quit bool, err error) {
	for {
		fmt.Fprintf(out, "your move [0-%d, q]: ", columns-1)
		if !in.Scan() {
			return 0, true, in.Err()
		}
		text := strings.TrimSpace(in.Text())
		if text == "q" || text == "quit" {
			return 0, true, nil
		}
		col, err := strconv.Atoi(text)
		if err != nil {
			fmt.Fprintf(out, "%q is not a column\n", text)
			continue
		}
		return col, false, nil
	}
}
