package server

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"moviefinder/internal/push"
	"moviefinder/internal/tools"
)

// Liveness is the body of GET /.
const Liveness = "Movie Finder MCP server is running"

// Options carries the file locations served verbatim.
type Options struct {
	PublicDir    string
	ManifestPath string
	OpenAPIPath  string
}

// Deps are the long-lived components the routes are built on.
type Deps struct {
	Dispatcher *tools.Dispatcher
	Registry   *push.Registry
	Stream     *push.Handler
	Logger     hclog.Logger
}

// NewRouter wires every HTTP route.
func NewRouter(opts Options, deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	router := gin.New()
	router.Use(
		gin.LoggerWithWriter(logger.Named("http").StandardWriter(&hclog.StandardLoggerOptions{})),
		tools.Recovery(),
		cors.Default(),
	)
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, Liveness)
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"stream_clients": deps.Registry.Count(),
		})
	})

	mcp := router.Group("/mcp")
	deps.Stream.RegisterRoutes(mcp)
	tools.NewHandler(deps.Dispatcher).RegisterRoutes(mcp)

	router.GET("/manifest.json", serveFile(opts.ManifestPath))
	router.GET("/openapi.json", serveFile(opts.OpenAPIPath))

	if opts.PublicDir != "" {
		router.Static("/public", opts.PublicDir)
	}

	return router
}

// serveFile sends path as-is, 404 when it is missing.
func serveFile(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := os.Stat(path); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(path)
	}
}
