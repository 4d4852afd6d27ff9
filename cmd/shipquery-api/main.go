// Command shipquery-api serves the HTTP API: dataset upload, questions,
// known fields, history and swagger docs.
//
// @title Shipment NL Query API
// @version 1.0
// @description Upload tabular shipment data and ask plain-English questions about it.
// @BasePath /api/v1
package main

import (
	"context"
	"os"

	"shipquery/internal/api"
	"shipquery/internal/api/handler"
	"shipquery/internal/config"
	"shipquery/internal/history"
	"shipquery/internal/logging"
	"shipquery/internal/session"
	"shipquery/internal/store"
	"shipquery/pkg/router"
)

func main() {
	cfg, err := config.Load(os.Getenv("SHIPQUERY_CONFIG"))
	if err != nil {
		panic(err)
	}
	log := logging.New(cfg.Debug)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	client, err := store.Connect(ctx, cfg.Store.URI, cfg.Store.Database, log)
	if err != nil {
		log.Fatalw("store connection failed", "err", err)
	}
	defer client.Close(context.Background())

	hist, err := history.Open(cfg.History.Path)
	if err != nil {
		log.Warnw("history disabled", "err", err)
		hist = nil
	} else {
		defer hist.Close()
	}

	h := &handler.Handler{
		Session: &session.Session{
			Collection: client.Collection(cfg.Store.Collection),
			History:    hist,
			Loc:        cfg.Location(),
			SampleSize: int64(cfg.SampleSize),
			Log:        log,
		},
		Timeout: cfg.Timeout(),
	}

	r := router.New()
	api.RegisterRoutes(r, h)

	if err := r.Start(cfg.HTTP.Addr); err != nil {
		log.Fatalw("server stopped", "err", err)
	}
}
