package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Farouk-MY/PFE-sub001/config"
	"github.com/Farouk-MY/PFE-sub001/internal/db"
	"github.com/Farouk-MY/PFE-sub001/internal/engine"
	"github.com/Farouk-MY/PFE-sub001/internal/handlers"
	"github.com/Farouk-MY/PFE-sub001/internal/middleware"
	"github.com/Farouk-MY/PFE-sub001/internal/notify"
	"github.com/Farouk-MY/PFE-sub001/logging"
	"github.com/Farouk-MY/PFE-sub001/models"
)

func main() {
	logger := logging.GetSugaredLogger()
	defer logger.Sync()

	cfg := config.GetConfig()

	database, err := db.NewManager(cfg)
	if err != nil {
		logger.Fatal(err)
	}
	defer database.Close()

	orderEvents := make(chan models.OrderEvent, 64)
	nm := notify.NewManager(orderEvents, cfg, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go nm.StartEventDelivery(ctx)

	eng := engine.New(database, nm, logger)

	h := handlers.Handler{
		Config:   cfg,
		Database: database,
		Logger:   logger,
		Engine:   eng,
	}

	r := initRouter(h)

	err = http.ListenAndServe(cfg.RunAddress, r)
	logger.Fatalw("failed to start server", "error", err)
}

func initRouter(h handlers.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Post(`/api/user/register`,
		func(w http.ResponseWriter, r *http.Request) {
			middleware.Conveyor(
				http.HandlerFunc(h.Register),
				h.Logger,
				middleware.WriteWithCompression,
				middleware.ReadWithCompression,
				middleware.ValidateCredentialsAndHashLogin,
			).ServeHTTP(w, r)
		},
	)
	r.Post(`/api/user/login`,
		func(w http.ResponseWriter, r *http.Request) {
			middleware.Conveyor(
				http.HandlerFunc(h.Login),
				h.Logger,
				middleware.WriteWithCompression,
				middleware.ReadWithCompression,
				middleware.ValidateCredentialsAndHashLogin,
			).ServeHTTP(w, r)
		},
	)
	r.Post(`/api/user/orders`,
		func(w http.ResponseWriter, r *http.Request) {
			middleware.Conveyor(
				http.HandlerFunc(h.Checkout),
				h.Logger,
				middleware.WriteWithCompression,
				middleware.ReadWithCompression,
				middleware.ValidateAuth,
			).ServeHTTP(w, r)
		},
	)
	r.Get(`/api/user/orders`,
		func(w http.ResponseWriter, r *http.Request) {
			middleware.Conveyor(
				http.HandlerFunc(h.OrdersGet),
				h.Logger,
				middleware.WriteWithCompression,
				middleware.ReadWithCompression,
				middleware.ValidateAuth,
			).ServeHTTP(w, r)
		},
	)
	r.Get(`/api/user/balance`,
		func(w http.ResponseWriter, r *http.Request) {
			middleware.Conveyor(
				http.HandlerFunc(h.Balance),
				h.Logger,
				middleware.WriteWithCompression,
				middleware.ReadWithCompression,
				middleware.ValidateAuth,
			).ServeHTTP(w, r)
		},
	)
	r.Get(`/api/user/points`,
		func(w http.ResponseWriter, r *http.Request) {
			middleware.Conveyor(
				http.HandlerFunc(h.PointsHistory),
				h.Logger,
				middleware.WriteWithCompression,
				middleware.ReadWithCompression,
				middleware.ValidateAuth,
			).ServeHTTP(w, r)
		},
	)
	r.Get(`/api/admin/orders/{orderID}`,
		func(w http.ResponseWriter, r *http.Request) {
			middleware.Conveyor(
				http.HandlerFunc(h.OrderGet),
				h.Logger,
				middleware.WriteWithCompression,
				middleware.ReadWithCompression,
				middleware.ValidateAdmin,
				middleware.ValidateAuth,
			).ServeHTTP(w, r)
		},
	)
	r.Post(`/api/admin/orders/{orderID}/status`,
		func(w http.ResponseWriter, r *http.Request) {
			middleware.Conveyor(
				http.HandlerFunc(h.OrderStatus),
				h.Logger,
				middleware.WriteWithCompression,
				middleware.ReadWithCompression,
				middleware.ValidateAdmin,
				middleware.ValidateAuth,
			).ServeHTTP(w, r)
		},
	)
	return r
}
