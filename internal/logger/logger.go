// Package logger builds the application-wide zap logger.
package logger

import (
	"go.uber.org/zap"
)

// New returns a configured zap logger. Production mode emits JSON at info
// level; development mode emits console output with debug enabled.
func New(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
