package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"moviefinder/internal/genre"
	"moviefinder/internal/grpcserver"
	"moviefinder/internal/push"
	"moviefinder/internal/server"
	"moviefinder/internal/tmdb"
	"moviefinder/internal/tools"
	"moviefinder/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	logger := utils.NewLogger(cfg)
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}

	if cfg.TMDBAPIKey == "" {
		logger.Warn("TMDB_API_KEY is not set; upstream calls will be rejected")
	}

	gin.SetMode(gin.ReleaseMode)

	client := tmdb.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey, cfg.TMDBLanguage, cfg.TMDBTimeout, logger.Named("tmdb"))
	genres := genre.NewCache(client, logger.Named("genre"))
	registry := push.NewRegistry(logger.Named("push"))
	dispatcher := tools.NewDispatcher(client, genres, registry, logger.Named("tools"))

	router := server.NewRouter(server.Options{
		PublicDir:    cfg.PublicDir,
		ManifestPath: cfg.ManifestPath,
		OpenAPIPath:  cfg.OpenAPIPath,
	}, server.Deps{
		Dispatcher: dispatcher,
		Registry:   registry,
		Stream:     push.NewHandler(registry, cfg.StreamHeartbeat, logger.Named("stream")),
		Logger:     logger,
	})

	// Cancelling streamCtx ends open event streams, which never finish on their own.
	streamCtx, endStreams := context.WithCancel(context.Background())
	defer endStreams()

	httpSrv := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     router,
		BaseContext: func(net.Listener) context.Context { return streamCtx },
	}

	var grpcSrv *grpc.Server
	var grpcLis net.Listener
	if cfg.GRPCAddr != "" {
		// Bind early so a taken port fails startup.
		grpcLis, err = net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			logger.Error("grpc listen failed", "addr", cfg.GRPCAddr, "error", err)
			os.Exit(1)
		}
		grpcSrv = grpcserver.New(dispatcher, logger.Named("grpc"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if grpcSrv != nil {
		g.Go(func() error {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			return grpcSrv.Serve(grpcLis)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		endStreams()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown error", "error", err)
			_ = httpSrv.Close()
		}
		if grpcSrv != nil {
			grpcSrv.GracefulStop()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("servers stopped")
}
