package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	beliefmcp "github.com/sanonone/beliefdb/internal/mcp"
	"github.com/sanonone/beliefdb/internal/repl"
	"github.com/sanonone/beliefdb/internal/server"
	"github.com/sanonone/beliefdb/pkg/engine"
)

func main() {
	httpAddr := flag.String("http-addr", "", "address and port for the REST API server (e.g. :8080); overrides the config file")
	configPath := flag.String("config", "", "path to the YAML server configuration file")
	replMode := flag.Bool("repl", false, "run the interactive console instead of the HTTP server")
	mcpMode := flag.Bool("mcp", false, "serve MCP tools over stdio instead of the HTTP server")

	flag.Parse()

	eng := engine.New()

	if *replMode {
		if err := repl.New(eng, os.Stdout).Run(os.Stdin); err != nil {
			slog.Error("console failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if *mcpMode {
		s := beliefmcp.NewMCPServer(eng)
		if err := s.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
			slog.Error("MCP server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		slog.Error("cannot load configuration", "error", err)
		os.Exit(1)
	}
	if *httpAddr != "" {
		cfg.Addr = *httpAddr
	}

	srv := server.NewServer(eng, cfg)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-shutdownChan:
		srv.Shutdown()
	}
}
