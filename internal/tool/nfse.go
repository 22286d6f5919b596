package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/joseph-ayodele/nfse-ingest/internal/repository"
	"github.com/joseph-ayodele/nfse-ingest/internal/services/nfse"
)

// MetadataInsertNFSe describes the insert_nfse tool.
var MetadataInsertNFSe = &mcp.Tool{
	Name: "insert_nfse",
	Description: "Insert one NFS-e (Brazilian service invoice) into the database. " +
		"Accepts any format: the canonical {\"nota_fiscal\": {\"prestador\", \"tomador\", \"nota\", \"servico\"}} object, " +
		"any other JSON object, JSON text, XML text, or free text such as OCR output. " +
		"Fields are mapped automatically; dates and monetary values are normalized. " +
		"Re-submitting an invoice with a known identificador returns the existing nota_id.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"nfse_data"},
		"properties": map[string]interface{}{
			"nfse_data": map[string]interface{}{
				"description": "The invoice, either as an object or as JSON, XML or free text",
			},
		},
	},
}

// MetadataQueryNFSe describes the query_nfse tool.
var MetadataQueryNFSe = &mcp.Tool{
	Name: "query_nfse",
	Description: "Run a read-only SQL statement (SELECT, WITH, EXPLAIN, PRAGMA, VALUES) against the invoice database " +
		"and return the rows. Tables: prestador, tomador, nota_fiscal, servico, atividade_municipio, " +
		"atividade_nacional, local_prestacao, dicionario_dados. Call query_dicionario_de_dados first to learn the columns.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"sql_query"},
		"properties": map[string]interface{}{
			"sql_query": map[string]interface{}{
				"type":        "string",
				"description": "A single read-only SQL statement",
			},
		},
	},
	OutputSchema: queryOutputSchema,
}

// MetadataQueryDictionary describes the query_dicionario_de_dados tool.
var MetadataQueryDictionary = &mcp.Tool{
	Name:        "query_dicionario_de_dados",
	Description: "Return the data dictionary: every table column with its type, size, key and description.",
	InputSchema: map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	},
	OutputSchema: queryOutputSchema,
}

// queryOutputSchema describes OutputQuery. Rows are objects whose keys follow
// the statement's column order.
var queryOutputSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"success", "count", "data"},
	"properties": map[string]interface{}{
		"success": map[string]interface{}{"type": "boolean"},
		"count":   map[string]interface{}{"type": "integer"},
		"data": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "object"},
		},
		"error": map[string]interface{}{"type": "string"},
	},
}

// InputInsertNFSe is the input for the InsertNFSe tool.
// NFSeData stays raw so object keys keep their document order.
type InputInsertNFSe struct {
	NFSeData json.RawMessage `json:"nfse_data"`
}

// OutputInsertNFSe is the output for the InsertNFSe tool.
type OutputInsertNFSe struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	NotaID   *int64 `json:"nota_id"`
	Existing bool   `json:"existing,omitempty"`
	Error    string `json:"error,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// InputQueryNFSe is the input for the QueryNFSe tool.
type InputQueryNFSe struct {
	SQLQuery string `json:"sql_query"`
}

// InputQueryDictionary is the input for the QueryDictionary tool.
type InputQueryDictionary struct{}

// OutputQuery is the output of both read tools.
type OutputQuery struct {
	Success bool             `json:"success"`
	Count   int              `json:"count"`
	Data    []repository.Row `json:"data"`
	Error   string           `json:"error,omitempty"`
}

// Tools binds the tool handlers to an invoice service.
type Tools struct {
	svc *nfse.Service
}

func New(svc *nfse.Service) *Tools {
	return &Tools{svc: svc}
}

// InsertNFSe normalizes and stores one invoice.
func (t *Tools) InsertNFSe(ctx context.Context, _ *mcp.CallToolRequest, input InputInsertNFSe) (*mcp.CallToolResult, OutputInsertNFSe, error) {
	raw := bytes.TrimSpace(input.NFSeData)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, OutputInsertNFSe{}, fmt.Errorf("nfse_data is required")
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil && strings.TrimSpace(text) == "" {
		return nil, OutputInsertNFSe{}, fmt.Errorf("nfse_data is required")
	}

	res := t.svc.Insert(ctx, raw)
	return nil, OutputInsertNFSe{
		Success:  res.Success,
		Message:  res.Message,
		NotaID:   res.NotaID,
		Existing: res.Existing,
		Error:    res.Error,
		Reason:   res.Reason,
	}, nil
}

// QueryNFSe runs a read-only statement.
func (t *Tools) QueryNFSe(ctx context.Context, _ *mcp.CallToolRequest, input InputQueryNFSe) (*mcp.CallToolResult, OutputQuery, error) {
	if strings.TrimSpace(input.SQLQuery) == "" {
		return nil, OutputQuery{}, fmt.Errorf("sql_query is required")
	}
	return nil, toOutputQuery(t.svc.Query(ctx, input.SQLQuery)), nil
}

// QueryDictionary returns the data dictionary.
func (t *Tools) QueryDictionary(ctx context.Context, _ *mcp.CallToolRequest, _ InputQueryDictionary) (*mcp.CallToolResult, OutputQuery, error) {
	return nil, toOutputQuery(t.svc.Dictionary(ctx)), nil
}

func toOutputQuery(res nfse.QueryResult) OutputQuery {
	return OutputQuery{
		Success: res.Success,
		Count:   res.Count,
		Data:    res.Data,
		Error:   res.Error,
	}
}
