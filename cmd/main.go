package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/credcheck/internal/api/grpc/health"
	"github.com/dtroode/credcheck/internal/api/grpc/router"
	grpcServer "github.com/dtroode/credcheck/internal/api/grpc/server"
	"github.com/dtroode/credcheck/internal/api/reqrep"
	"github.com/dtroode/credcheck/internal/config"
	"github.com/dtroode/credcheck/internal/logger"
	"github.com/dtroode/credcheck/internal/model"
	"github.com/dtroode/credcheck/internal/repository"
	"github.com/dtroode/credcheck/internal/server"
	"github.com/dtroode/credcheck/internal/service"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("failed to load environment: %v", err)
	}

	cfg, err := config.NewConfig(os.Args[1:])
	switch {
	case errors.Is(err, pflag.ErrHelp):
		return
	case errors.Is(err, config.ErrVersion):
		logAppVersion()
		return
	case err != nil:
		log.Fatalf("failed to parse config: %v", err)
	}

	logger := logger.NewWithFile(cfg.LogLevel, logger.FileOptions{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	defer logger.Close()

	logAppVersion()

	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize credential store", "error", err, "kind", cfg.Store.Kind)
	}
	defer store.Close()

	dispatcher := service.NewDispatcher(store, logger)

	// the socket outlives ctx so a reply in flight at shutdown still goes out
	socket := reqrep.NewZMQSocket(context.Background(), logger)

	var (
		loopOpts []reqrep.Option
		hs       *healthServer
	)
	if cfg.Health.Enabled {
		hs = startHealthServer(cfg.Health, logger)
		loopOpts = append(loopOpts, reqrep.WithStateObserver(hs.reporter.Observe))
	}

	loop := reqrep.NewLoop(socket, cfg.Transport.Endpoint, dispatcher, logger, loopOpts...)
	serveErr := loop.Serve(ctx)

	if hs != nil {
		hs.stop(logger)
	}

	if serveErr != nil {
		logger.Fatal("credential service stopped", "error", serveErr)
	}
	logger.Info("shutdown complete")
}

type healthServer struct {
	reporter *health.Reporter
	server   *grpcServer.GRPCServer
	wg       sync.WaitGroup
}

func startHealthServer(cfg config.Health, logger *logger.Logger) *healthServer {
	reporter := health.NewReporter(logger)
	s := router.New(reporter, logger).Register()
	reflection.Register(s)

	h := &healthServer{
		reporter: reporter,
		server:   grpcServer.NewGRPCServer(s, fmt.Sprintf(":%s", cfg.Port)),
	}

	sl := server.NewSecurityLayer(cfg.EnableHTTPS, cfg.CertFileName, cfg.PrivateKeyFileName)

	h.wg.Add(1)
	go func(s model.Server) {
		defer h.wg.Done()
		logger.Info("Starting health server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start health server", "error", err)
		}
	}(h.server)

	return h
}

func (h *healthServer) stop(logger *logger.Logger) {
	h.reporter.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.server.Stop(shutdownCtx); err != nil {
		logger.Error("error during health server shutdown", "error", err, "address", h.server.Address())
	}
	h.wg.Wait()
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
