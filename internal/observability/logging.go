package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-entitlement-backend/internal/config"
	"github.com/tbourn/go-entitlement-backend/internal/sysutil"
)

// SetupLogging configures the global zerolog logger from config: level,
// output format (JSON by default, pretty console when LOG_PRETTY is set),
// and a constant service field for log aggregation.
func SetupLogging(cfg config.Config) {
	sysutil.SetLogLevel(cfg.LogLevel)

	var w io.Writer = os.Stderr
	if cfg.LogPretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	svc := sysutil.FirstNonEmpty(cfg.OTEL.ServiceName, "entitlement-backend")
	log.Logger = zerolog.New(w).With().
		Timestamp().
		Str("service", svc).
		Logger()
}
