package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/joseph-ayodele/nfse-ingest/constants"
	"github.com/joseph-ayodele/nfse-ingest/internal/common"
	repo "github.com/joseph-ayodele/nfse-ingest/internal/repository"
	"github.com/joseph-ayodele/nfse-ingest/internal/server"
	"github.com/joseph-ayodele/nfse-ingest/internal/services/nfse"
	"github.com/joseph-ayodele/nfse-ingest/internal/tool"
)

// nfse-mcp serves the invoice tools over stdio. Logs go to stderr so stdout
// carries only protocol messages.
func main() {
	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	drv, pool, err := server.ConnectDB(ctx, cfg, logger)
	if err != nil {
		os.Exit(1)
	}
	defer repo.Close(drv, pool, logger)

	svc := nfse.NewService(repo.NewInvoiceRepository(drv, logger), repo.NewQueryRepository(drv, logger), logger)
	mcpServer := tool.NewServer(cfg.App.Name, constants.Version, svc)

	logger.Info("MCP server running on stdio")
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}
