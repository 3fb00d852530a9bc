package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/robalobadob/soup-riddle/internal/game"
)

const playHelp = "/q question mode, /g guess mode, /mode show mode, /quit exit"

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play interactively: ask questions, then guess the story",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := resolveJudge()
			if err != nil {
				return err
			}
			return play(game.New(j), cmd.InOrStdin(), newPrinter(cmd.OutOrStdout(), !flagNoColor))
		},
	}
}

// play runs the read-judge-print loop until EOF or /quit.
func play(sess *game.Session, in io.Reader, p printer) error {
	v := sess.Snapshot()
	p.system(v.Messages[0].Content)
	p.hint(playHelp)

	sc := bufio.NewScanner(in)
	for {
		v = sess.Snapshot()
		p.prompt(v.Mode)
		if !sc.Scan() {
			p.line("")
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())

		switch line {
		case "/quit", "/exit":
			return nil
		case "/help":
			p.hint(playHelp)
			continue
		case "/mode":
			p.hint(string(v.Mode))
			continue
		case "/q", "/g":
			mode := game.ModeQuestion
			if line == "/g" {
				mode = game.ModeGuess
			}
			if err := sess.SetMode(mode); err != nil {
				return err
			}
			p.hint(sess.Snapshot().Placeholder)
			continue
		}

		msgs, err := sess.Send(line)
		if errors.Is(err, game.ErrEmptyInput) {
			continue
		}
		if err != nil {
			return err
		}
		reply := msgs[len(msgs)-1]
		if reply.Outcome == game.OutcomeSolved {
			p.success(reply.Content)
			continue
		}
		p.system(reply.Content)
	}
}

// printer writes the conversation, coloured when enabled.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer, colored bool) printer {
	return printer{w: w, color: colored}
}

func (p printer) paint(c color.Color, s string) string {
	if !p.color {
		return s
	}
	return c.Sprint(s)
}

func (p printer) line(s string)    { fmt.Fprintln(p.w, s) }
func (p printer) system(s string)  { p.line(p.paint(color.Cyan, s)) }
func (p printer) success(s string) { p.line(p.paint(color.Green, s)) }
func (p printer) hint(s string)    { p.line(p.paint(color.Gray, s)) }

func (p printer) prompt(m game.Mode) {
	mark := "?"
	if m == game.ModeGuess {
		mark = "!"
	}
	fmt.Fprint(p.w, p.paint(color.Yellow, mark+" "))
}
