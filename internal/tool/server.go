package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/joseph-ayodele/nfse-ingest/internal/services/nfse"
)

// NewServer returns an MCP server exposing the invoice tools.
func NewServer(name, version string, svc *nfse.Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil)
	t := New(svc)
	mcp.AddTool(server, MetadataInsertNFSe, t.InsertNFSe)
	mcp.AddTool(server, MetadataQueryNFSe, t.QueryNFSe)
	mcp.AddTool(server, MetadataQueryDictionary, t.QueryDictionary)
	return server
}
