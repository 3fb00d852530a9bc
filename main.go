package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/soup-riddle/internal/config"
	"github.com/robalobadob/soup-riddle/internal/httpserver"
	"github.com/robalobadob/soup-riddle/internal/riddle"
	"github.com/robalobadob/soup-riddle/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	lib, err := riddle.LoadLibrary(cfg.DeckFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load riddle decks")
	}
	if _, err := lib.Judge(cfg.DefaultLocale); err != nil {
		log.Fatal().Err(err).Strs("locales", lib.Locales()).Msg("default locale has no deck")
	}

	mem := store.NewMemoryStore(cfg.SessionTTL)
	srv := httpserver.New(cfg, lib, mem)
	log.Info().
		Str("port", cfg.Port).
		Strs("locales", lib.Locales()).
		Dur("session_ttl", cfg.SessionTTL).
		Msg("starting soup-server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
