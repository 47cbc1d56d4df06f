package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Init configures the global logrus logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text formatter at debug level.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	if env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		logrus.SetLevel(logrus.DebugLevel)
	}

	logrus.SetOutput(os.Stdout)
}

// WithRun returns a logger with run context fields attached.
// Use this for all logging within a scheduled invocation.
func WithRun(component, runID, account string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"component": component,
		"run_id":    runID,
		"account":   account,
	})
}

// ForComponent returns a logger tagged with a component name only,
// for code paths that run outside a scheduled invocation.
func ForComponent(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
