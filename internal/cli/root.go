package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/soup-riddle/internal/config"
	"github.com/robalobadob/soup-riddle/internal/riddle"
)

var (
	flagLocale  string
	flagDeck    string
	flagNoColor bool
)

// ErrNotSolved is returned by the guess command when the guess fails, so
// the process exits non-zero.
var ErrNotSolved = errors.New("not solved")

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "soup",
		Short:         "Sea turtle soup: a lateral-thinking riddle in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagLocale, "locale", "", "deck locale (defaults to DEFAULT_LOCALE)")
	cmd.PersistentFlags().StringVar(&flagDeck, "deck", "", "extra deck file (defaults to RIDDLE_DECK_FILE)")
	cmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable coloured output")

	cmd.AddCommand(newPlayCmd())
	cmd.AddCommand(newAskCmd())
	cmd.AddCommand(newGuessCmd())

	return cmd
}

func Execute() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, ErrNotSolved) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// resolveJudge loads the deck library and picks the judge named by
// --locale, falling back to the configured default locale.
func resolveJudge() (*riddle.Judge, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	deck := flagDeck
	if deck == "" {
		deck = cfg.DeckFile
	}
	lib, err := riddle.LoadLibrary(deck)
	if err != nil {
		return nil, err
	}
	locale := flagLocale
	if locale == "" {
		locale = cfg.DefaultLocale
	}
	j, err := lib.Judge(locale)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, lib.Locales())
	}
	return j, nil
}
