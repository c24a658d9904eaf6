// Package logging builds the zap logger shared across the storefront
// settlement service.
package logging

import "go.uber.org/zap"

// GetSugaredLogger panics when zap cannot start: nothing in the
// service is allowed to run unlogged.
func GetSugaredLogger() *zap.SugaredLogger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("cannot initialize zap")
	}
	sl := logger.Sugar()

	return sl
}
