// Package logging configures the process-wide zap logger. Library
// packages log through zap's globals, so Init must run before any
// evaluation or meshing work starts.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// Init builds a zap logger for the given mode ("prod"/"production" for
// JSON output, anything else for the development console encoder) and
// installs it as the global logger. The returned function flushes
// buffered entries and should be deferred by the caller.
func Init(mode string) (func(), error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return func() { _ = logger.Sync() }, nil
}
