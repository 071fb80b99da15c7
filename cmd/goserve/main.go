package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Amirali-Amirifar/goserve/internal/config"
	"github.com/Amirali-Amirifar/goserve/internal/controller"
	"github.com/Amirali-Amirifar/goserve/internal/tui"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logCloser, err := config.ConfigureLogging(cfg, cfg.Console)
	if err != nil {
		log.Fatalf("Error configuring logging: %v", err)
	}
	defer logCloser.Close()

	if cfg.WriteCatalog != "" {
		if err := config.WriteDefaultCatalog(cfg.WriteCatalog); err != nil {
			log.Fatalf("Error writing catalog: %v", err)
		}
		log.Infof("Wrote built-in catalog to %s", cfg.WriteCatalog)
		return
	}

	catalog, err := config.LoadCatalog(cfg)
	if err != nil {
		log.Fatalf("Error loading catalog: %v", err)
	}
	for _, status := range catalog.Inspect() {
		if !status.Available {
			log.Warnf("Catalog file for %s is missing: %s", status.Name, status.Path)
		}
	}

	ln, err := controller.Listen(cfg.Addr())
	if err != nil {
		log.Fatalf("Error starting server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := controller.Options{Title: cfg.Title, ChunkSize: cfg.ChunkSize}
	if !cfg.Console {
		if err := controller.NewServer(catalog, opts).Serve(ctx, ln); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
		return
	}

	console := tui.NewConsole(catalog, ln.Addr().String())
	opts.Observer = console
	server := controller.NewServer(catalog, opts)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ctx, ln)
		console.Quit()
	}()
	go func() {
		<-ctx.Done()
		console.Quit()
	}()

	if err := console.Run(); err != nil {
		log.Errorf("Console stopped: %v", err)
	}
	stop()
	if err := <-serveErr; err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
