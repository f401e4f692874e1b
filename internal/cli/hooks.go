package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gvc/pkg/errors"
	"github.com/matzehuels/gvc/pkg/observability"
)

// lookupProgress shows the entry being looked up in a spinner.
type lookupProgress struct {
	observability.NoopResolveHooks
	spinner *Spinner
	prefix  string
}

func (p lookupProgress) OnLookupStart(_ context.Context, alias, _ string, index, total int) {
	p.spinner.SetMessage(fmt.Sprintf("%s %s (%d/%d)", p.prefix, alias, index+1, total))
}

// startLookupSpinner starts a spinner that follows resolution progress.
// The returned func stops it and detaches the progress hooks.
func (c *CLI) startLookupSpinner(cmd *cobra.Command, prefix string) func() {
	s := c.startSpinner(cmd, prefix+"...")
	observability.SetResolveHooks(lookupProgress{spinner: s, prefix: prefix})
	return func() {
		s.Stop()
		observability.SetResolveHooks(observability.NoopResolveHooks{})
	}
}

// requestLogger logs every repository request at debug level.
type requestLogger struct {
	logger *log.Logger
}

// RequestLogger returns HTTP hooks that trace repository requests to logger.
func RequestLogger(logger *log.Logger) observability.HTTPHooks {
	return requestLogger{logger: logger}
}

func (r requestLogger) OnRequest(context.Context, string, string, string) {}

func (r requestLogger) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	r.logger.Debug("http", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (r requestLogger) OnError(_ context.Context, method, host, path string, err error) {
	r.logger.Debug("http failed", "method", method, "host", host, "path", path, "err", errors.UserMessage(err))
}
