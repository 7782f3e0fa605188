package app

import (
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/issue-manager/internal/config"
)

func MustReadEnv(logger zerolog.Logger, reader config.Reader) *config.Config {
	cfg, err := reader.Read()
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	logger.Info().
		Str("env", cfg.Env).
		Bool("debug", cfg.Debug).
		Msg("read env")

	return cfg
}
