package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry initializes error reporting. A missing DSN leaves the SDK in
// its no-op state.
func InitSentry(dsn, environment string) error {
	if dsn == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		AttachStacktrace: true,
	})
}

// FlushSentry drains buffered events on shutdown.
func FlushSentry() {
	sentry.Flush(2 * time.Second)
}
