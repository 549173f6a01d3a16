package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"moviefinder/internal/tmdb"
)

func main() {
	addr := flag.String("addr", ":9000", "listen address")
	dataDir := flag.String("data", "data/tmdb", "fixture directory")
	flag.Parse()

	logger := hclog.New(&hclog.LoggerOptions{Name: "tmdb-mirror", Output: os.Stderr})
	gin.SetMode(gin.ReleaseMode)

	fixtures, err := tmdb.LoadFixtures(*dataDir)
	if err != nil {
		logger.Error("load fixtures failed", "dir", *dataDir, "error", err)
		os.Exit(1)
	}

	// Point TMDB_BASE_URL at http://localhost:9000/3.
	logger.Info("tmdb mirror listening", "addr", *addr, "movies", len(fixtures.Movies), "catalog", len(fixtures.Catalog))
	if err := http.ListenAndServe(*addr, tmdb.NewMirror(fixtures).Handler("/3")); err != nil {
		logger.Error("mirror stopped", "error", err)
		os.Exit(1)
	}
}
