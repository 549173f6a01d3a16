package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"moviefinder/internal/grpcserver"
	"moviefinder/internal/push"
	"moviefinder/internal/tools"
)

const defaultBaseURL = "http://localhost:8000"

var logger = hclog.New(&hclog.LoggerOptions{Name: "moviefinder-cli", Output: os.Stderr, Level: hclog.Info})

func main() {
	global := flag.NewFlagSet("moviefinder", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	grpcAddr := global.String("grpc", "", "call tools over gRPC at this address instead of HTTP")
	clientID := global.String("client", "", "push channel client id")
	if err := global.Parse(os.Args[1:]); err != nil {
		fatal("parse flags", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	caller := newCaller(*baseURL, *grpcAddr)

	switch args[0] {
	case "search":
		fs := flag.NewFlagSet("search", flag.ExitOnError)
		query := fs.String("q", "", "title to search for; empty lists popular movies")
		limit := fs.Int("limit", 5, "max results")
		_ = fs.Parse(args[1:])
		if *query == "" && fs.NArg() > 0 {
			*query = strings.Join(fs.Args(), " ")
		}

		var resp tools.SearchResponse
		err := caller.call(ctx, envelope(tools.ToolSearchMovies, *clientID, map[string]any{
			"query": *query,
			"limit": *limit,
		}), &resp)
		if err != nil {
			fatal("search failed", err)
		}
		printJSON(resp)
	case "details":
		fs := flag.NewFlagSet("details", flag.ExitOnError)
		id := fs.Int("id", 0, "TMDB movie id")
		_ = fs.Parse(args[1:])
		if *id == 0 {
			fatal("details failed", fmt.Errorf("movie id is required"))
		}

		var resp tools.DetailsResponse
		if err := caller.call(ctx, envelope(tools.ToolMovieDetails, *clientID, map[string]any{"id": *id}), &resp); err != nil {
			fatal("details failed", err)
		}
		printJSON(resp)
	case "stream":
		for {
			if err := runStream(*baseURL, *clientID); err != nil {
				logger.Warn("stream disconnected", "error", err)
			}
			time.Sleep(1 * time.Second) // auto reconnect
		}
	case "watch":
		wsURL, err := websocketURL(*baseURL, "/mcp/ws", *clientID)
		if err != nil {
			fatal("invalid base url", err)
		}
		if err := runWebSocket(wsURL); err != nil {
			fatal("watch ended", err)
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

func envelope(tool, clientID string, input map[string]any) map[string]any {
	env := map[string]any{"tool": tool, "input": input}
	if clientID != "" {
		env["client_id"] = clientID
	}
	return env
}

type caller struct {
	baseURL  string
	grpcAddr string
	http     *http.Client
}

func newCaller(baseURL, grpcAddr string) *caller {
	return &caller{
		baseURL:  strings.TrimRight(baseURL, "/"),
		grpcAddr: grpcAddr,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *caller) call(ctx context.Context, payload, out any) error {
	if c.grpcAddr == "" {
		return doJSON(ctx, c.http, http.MethodPost, c.baseURL+"/mcp/messages", payload, out)
	}

	conn, err := grpc.NewClient(c.grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("grpc dial %s: %w", c.grpcAddr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return grpcserver.Invoke(ctx, conn, payload, out)
}

// runStream prints each pushed event until the server closes the stream.
func runStream(baseURL, clientID string) error {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/mcp/stream")
	if err != nil {
		return err
	}
	if clientID != "" {
		u.RawQuery = url.Values{"client_id": {clientID}}.Encode()
	}

	resp, err := http.Get(u.String())
	if err != nil {
		return fmt.Errorf("connect %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("connect %s: %s", u, resp.Status)
	}

	logger.Info("stream connected", "client_id", resp.Header.Get(push.ClientIDHeader))

	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
		case strings.HasPrefix(line, ":"):
			logger.Debug("stream comment", "text", strings.TrimPrefix(line, ":"))
		case strings.HasPrefix(line, "data:"):
			printEvent([]byte(strings.TrimPrefix(line, "data:")))
		default:
			fmt.Println(line)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return io.EOF
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	logger.Info("websocket connected", "url", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		printEvent(msg)
	}
}

func printEvent(raw []byte) {
	var obj any
	if err := json.Unmarshal(raw, &obj); err != nil {
		// not JSON? print raw
		fmt.Println(string(raw))
		return
	}
	printJSON(obj)
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal("json", err)
	}
	fmt.Println(string(b))
}

func websocketURL(baseURL, path, clientID string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	out := &url.URL{Scheme: scheme, Host: u.Host, Path: path}
	if clientID != "" {
		out.RawQuery = url.Values{"client_id": {clientID}}.Encode()
	}
	return out.String(), nil
}

func fatal(msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Println("moviefinder [-api URL] [-grpc ADDR] [-client ID] <command> [flags]")
	fmt.Println("commands:")
	fmt.Println("  search [-q query] [-limit n]   search_movies (empty query lists popular)")
	fmt.Println("  details -id N                  movie_details")
	fmt.Println("  stream                         print SSE push events, reconnecting")
	fmt.Println("  watch                          print WebSocket push events")
}
