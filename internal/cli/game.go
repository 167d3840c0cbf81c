package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Quiz game commands",
	}

	cmd.AddCommand(newGameNewCmd())
	cmd.AddCommand(newGameShowCmd())
	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameAnswerCmd())
	cmd.AddCommand(newGameAbandonCmd())
	cmd.AddCommand(newGameResultsCmd())
	cmd.AddCommand(newGamePlayCmd())

	return cmd
}

func newGameNewCmd() *cobra.Command {
	var (
		difficulty int
		questions  int
		lives      int
		bots       int
		opponents  []string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new quiz game",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if difficulty != 0 {
				req["difficulty"] = difficulty
			}
			if questions != 0 {
				req["question_limit"] = questions
			}
			if lives != 0 {
				req["starting_lives"] = lives
			}
			if bots != 0 {
				req["bots"] = bots
			}
			if len(opponents) > 0 {
				req["opponents"] = opponents
			}

			var result GameState
			if err := client.Post("/api/v1/sessions", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&difficulty, "difficulty", 0, "Difficulty 1-3 (default: easy)")
	cmd.Flags().IntVar(&questions, "questions", 0, "Question limit (default: 15)")
	cmd.Flags().IntVar(&lives, "lives", 0, "Starting lives (default: 3)")
	cmd.Flags().IntVar(&bots, "bots", 0, "Number of bot opponents")
	cmd.Flags().StringSliceVar(&opponents, "opponent", nil, "Opponent player ID (repeatable)")

	return cmd
}

func newGameShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState
			if err := client.Get("/api/v1/sessions/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start the game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState
			if err := client.Post("/api/v1/sessions/"+args[0]+"/start", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameAnswerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "answer <id> <answer>",
		Short: "Answer the current question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"answer": args[1]}

			var result GameState
			if err := client.Post("/api/v1/sessions/"+args[0]+"/answer", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameAbandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon <id>",
		Short: "Abandon the game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/sessions/"+args[0]+"/abandon", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Game abandoned")
			return nil
		},
	}
}

func newGameResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results <id>",
		Short: "Show final results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameSummary
			if err := client.Get("/api/v1/sessions/"+args[0]+"/results", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamePlayCmd() *cobra.Command {
	var bots int
	var difficulty int

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a full quiz interactively",
		Long: `Create a game, start it, and answer questions from the terminal
until the game is over. Defaults to a solo game; use --bots to add
bot opponents.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if bots != 0 {
				req["bots"] = bots
			}
			if difficulty != 0 {
				req["difficulty"] = difficulty
			}

			var state GameState
			if err := client.Post("/api/v1/sessions", req, &state); err != nil {
				return err
			}
			fmt.Printf("Game %s created\n", state.ID)

			if err := client.Post("/api/v1/sessions/"+state.ID+"/start", nil, &state); err != nil {
				return err
			}

			return playLoop(state)
		},
	}

	cmd.Flags().IntVar(&bots, "bots", 0, "Number of bot opponents")
	cmd.Flags().IntVar(&difficulty, "difficulty", 0, "Difficulty 1-3 (default: easy)")

	return cmd
}

// playLoop answers questions from stdin until the game reaches a
// terminal state
func playLoop(state GameState) error {
	reader := bufio.NewReader(os.Stdin)
	lastQuestion := 0

	for {
		switch state.State {
		case "in_round":
			if state.Problem == nil || state.QuestionNumber == lastQuestion {
				// Waiting on other players; poll
				time.Sleep(time.Second)
				if err := client.Get("/api/v1/sessions/"+state.ID, &state); err != nil {
					return err
				}
				continue
			}
			lastQuestion = state.QuestionNumber

			fmt.Printf("\nQuestion %d/%d (level %d):\n",
				state.QuestionNumber, state.Config.QuestionLimit, state.Problem.Level)
			fmt.Printf("  %s = ", state.Problem.Text)

			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}

			req := map[string]string{"answer": strings.TrimSpace(line)}
			if err := client.Post("/api/v1/sessions/"+state.ID+"/answer", req, &state); err != nil {
				return err
			}

			printScoreboard(state)

		case "game_over":
			var summary GameSummary
			if err := client.Get("/api/v1/sessions/"+state.ID+"/results", &summary); err != nil {
				return err
			}
			fmt.Println()
			NewOutput(cfg.Output).Print(summary)
			return nil

		case "abandoned":
			fmt.Println("Game was abandoned")
			return nil

		default:
			// Evaluating or setup; refresh
			time.Sleep(250 * time.Millisecond)
			if err := client.Get("/api/v1/sessions/"+state.ID, &state); err != nil {
				return err
			}
		}
	}
}

func printScoreboard(state GameState) {
	for _, c := range state.Contestants {
		name := c.DisplayName
		if c.Avatar != "" {
			name = c.Avatar + " " + name
		}
		fmt.Printf("  %s: %d pts, %s\n", name, c.Score, livesDisplay(c.Lives))
	}
}
