package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/cosmicword/internal/config"
	"github.com/robalobadob/cosmicword/internal/daily"
	"github.com/robalobadob/cosmicword/internal/database"
	"github.com/robalobadob/cosmicword/internal/httpserver"
	"github.com/robalobadob/cosmicword/internal/store"
	"github.com/robalobadob/cosmicword/internal/users"
	"github.com/robalobadob/cosmicword/internal/words"
)

const releaseVersion = "0.4.0"

func main() {
	cfg := &config.Config{}
	if err := config.NewCommand(cfg, releaseVersion, run).Execute(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := words.Init(cfg.WordsDir); err != nil {
		return err
	}
	lists := words.Default()
	log.Info().Interface("words", lists.Stats()).Msg("word lists loaded")

	db, err := database.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		return err
	}

	accounts := users.NewSQLStore(db)
	if cfg.SeedDemo {
		n, err := accounts.SeedDemo(ctx)
		if err != nil {
			return err
		}
		log.Info().Int("players", n).Msg("seeded demo leaderboard")
	}

	srv := httpserver.New(cfg, httpserver.Deps{
		Sessions: store.NewMemoryStore(),
		Users:    accounts,
		Daily:    daily.NewStore(db),
		Words:    lists,
	})
	go srv.Feed().Run(ctx)
	go srv.RunJanitor(ctx, 10*time.Minute)

	log.Info().Str("addr", cfg.Addr()).Str("version", releaseVersion).Msg("starting cosmicword")
	return srv.Start(ctx)
}
