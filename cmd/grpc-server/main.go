package main

import (
	"net"
	"os"

	"moviefinder/internal/genre"
	"moviefinder/internal/grpcserver"
	"moviefinder/internal/push"
	"moviefinder/internal/tmdb"
	"moviefinder/internal/tools"
	"moviefinder/pkg/utils"
)

// grpc-server runs the tool service alone, without the HTTP routes. Push
// events have no listeners here, so notifications are dropped.
func main() {
	cfg, err := utils.LoadConfig()
	logger := utils.NewLogger(cfg)
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}

	addr := cfg.GRPCAddr
	if addr == "" {
		addr = ":9090"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("grpc listen failed", "addr", addr, "error", err)
		os.Exit(1)
	}

	client := tmdb.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey, cfg.TMDBLanguage, cfg.TMDBTimeout, logger.Named("tmdb"))
	dispatcher := tools.NewDispatcher(client, genre.NewCache(client, logger.Named("genre")), push.NewRegistry(logger.Named("push")), logger.Named("tools"))

	grpcServer := grpcserver.New(dispatcher, logger.Named("grpc"))

	logger.Info("gRPC server listening", "addr", addr)
	if err := grpcServer.Serve(listener); err != nil {
		logger.Error("grpc server stopped", "error", err)
		os.Exit(1)
	}
}
