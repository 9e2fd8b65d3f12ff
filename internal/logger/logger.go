package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger instance
var Log *slog.Logger

// Init installs the default logger.
// Development: text at debug level. Production: JSON at info level.
// With a Sentry DSN, errors are also sent to Sentry.
func Init(isDev bool, sentryDSN, environment string) {
	Log = slog.New(newHandler(os.Stdout, isDev, sentryDSN, environment))
	slog.SetDefault(Log)
}

func newHandler(w io.Writer, isDev bool, sentryDSN, environment string) slog.Handler {
	var handlers []slog.Handler

	if isDev {
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			Environment:      environment,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			slog.New(handlers[0]).Warn("failed to initialize sentry", "error", err)
		} else {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	if len(handlers) > 1 {
		return slogmulti.Fanout(handlers...)
	}
	return handlers[0]
}

// Flush waits for buffered Sentry events before the process exits.
func Flush() {
	sentry.Flush(2 * time.Second)
}
