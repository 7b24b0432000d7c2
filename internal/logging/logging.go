package logging

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger: JSON in production, a
// console writer with caller info everywhere else.
func Setup(production bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	if production {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		gin.SetMode(gin.ReleaseMode)
		return
	}

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	log.Logger = log.With().Caller().Logger()
}
