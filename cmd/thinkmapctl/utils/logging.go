// Package utils holds thinkmapctl helpers shared by handlers and the client:
// logging setup, output formatting and map identifier resolution.
package utils

import (
	"os"
	"strings"

	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/config"
	"github.com/concave-dev/thinkmap/internal/logging"
)

// RestyLogger implements resty.Logger. Resty terminates its messages with a
// newline of its own, which is trimmed before logging.
type RestyLogger struct{}

func (RestyLogger) Errorf(format string, v ...any) {
	logging.Error("resty: "+strings.TrimSpace(format), v...)
}

func (RestyLogger) Warnf(format string, v ...any) {
	logging.Warn("resty: "+strings.TrimSpace(format), v...)
}

func (RestyLogger) Debugf(format string, v ...any) {
	logging.Debug("resty: "+strings.TrimSpace(format), v...)
}

// SetupLogging applies DEBUG=true, --log-level and --verbose. Without
// --verbose only errors are logged so tables and feedback stay readable.
func SetupLogging() {
	if os.Getenv("DEBUG") == "true" {
		logging.RestoreOutput()
		logging.SetLevel("DEBUG")
		return
	}

	if !config.Global.Verbose {
		logging.SuppressOutput()
		return
	}
	logging.RestoreOutput()
	logging.SetLevel(config.Global.LogLevel)
}
