package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/surveyforge/surveyforge/app"
	"github.com/surveyforge/surveyforge/config"
	"github.com/surveyforge/surveyforge/database"
	"github.com/surveyforge/surveyforge/log"
	"github.com/surveyforge/surveyforge/routes"
	"github.com/surveyforge/surveyforge/store"
	"github.com/surveyforge/surveyforge/token"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	app := app.App{
		Store:   store.New(db),
		Service: token.NewService(cfg.TokenSecret, cfg.TokenTTL),
		Config:  cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
