// Package middleware wraps the checkout and admin routes with the
// shared compression, credential and JWT layers.
package middleware

import (
	"go.uber.org/zap"
	"net/http"
)

// Conveyor chains middlewares around a handler. The last middleware in
// the list ends up outermost, so it runs first on a request.
func Conveyor(h http.Handler, sugar *zap.SugaredLogger, middlewares ...Middleware) http.Handler {
	for _, middleware := range middlewares {
		h = middleware(h, sugar)
	}
	return h
}
