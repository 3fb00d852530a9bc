package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask one yes/no question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := resolveJudge()
			if err != nil {
				return err
			}
			v := j.ClassifyQuestion(strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), j.Reply(v))
			return nil
		},
	}
}

func newGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <solution...>",
		Short: "Submit one solution; exits 1 when it is not correct",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := resolveJudge()
			if err != nil {
				return err
			}
			solved := j.JudgeGuess(strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), j.GuessReply(solved))
			if !solved {
				return ErrNotSolved
			}
			return nil
		},
	}
}
