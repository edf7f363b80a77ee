package app

import (
	"context"
	"fmt"

	"assetforge/internal/export"
	"assetforge/internal/forge"
	"assetforge/internal/gateway/config"
	"assetforge/internal/gateway/handler"
	"assetforge/internal/gateway/server"
	"assetforge/internal/generators"
)

type App struct {
	server     *server.Server
	service    *forge.Service
	closeStore func() error
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Dependencies
	store, closeStore, err := initExportStore(cfg)
	if err != nil {
		return nil, err
	}
	exporter, err := export.New(store, cfg.Export.EncodedEntries)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("failed to initialize exporter: %w", err)
	}
	svc := forge.New(forge.Options{
		Sources:  generators.Builtin(),
		Exporter: exporter,
	})
	if err := svc.Init(); err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("failed to discover generators: %w", err)
	}

	assetHandler := handler.NewAssetHandler(svc)

	// Routing & Server
	mux := server.NewMux(assetHandler)
	srv := server.New(cfg.Port, mux)

	return &App{
		server:     srv,
		service:    svc,
		closeStore: closeStore,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	a.service.Clear()
	if cerr := a.closeStore(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
