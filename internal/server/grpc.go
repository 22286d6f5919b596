package server

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/nfse-ingest/internal/common"
	"github.com/joseph-ayodele/nfse-ingest/internal/export"
	"github.com/joseph-ayodele/nfse-ingest/internal/ingest"
	"github.com/joseph-ayodele/nfse-ingest/internal/services/nfse"
)

const maxSQLLength = 64 << 10

// NFSeServer implements NFSeServiceServer on top of the invoice service.
type NFSeServer struct {
	svc      *nfse.Service
	ingestor *ingest.Usecase
	exporter *export.Service
	logger   *slog.Logger
}

func NewNFSeServer(svc *nfse.Service, ingestor *ingest.Usecase, exporter *export.Service, logger *slog.Logger) *NFSeServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NFSeServer{
		svc:      svc,
		ingestor: ingestor,
		exporter: exporter,
		logger:   logger,
	}
}

// InsertInvoice expects {"payload": <object or text>}.
func (s *NFSeServer) InsertInvoice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	payload, ok := payloadOf(req)
	if !ok {
		s.logger.Error("insert request missing payload")
		return nil, common.InvalidArgumentError("payload is required")
	}
	return s.reply(s.svc.Insert(ctx, payload))
}

// Query expects {"sql": "..."}.
func (s *NFSeServer) Query(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sql := strings.TrimSpace(stringField(req, "sql"))
	v := common.NewValidator().Field("sql", sql, common.Required, common.MaxLength(maxSQLLength))
	if err := common.ValidateAndReturnError(v); err != nil {
		s.logger.Error("invalid query request", "error", v.ErrorMessage())
		return nil, err
	}
	return s.reply(s.svc.Query(ctx, sql))
}

func (s *NFSeServer) Dictionary(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.reply(s.svc.Dictionary(ctx))
}

func (s *NFSeServer) Stats(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.reply(s.svc.Stats(ctx))
}

func (s *NFSeServer) reply(v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		return nil, common.InternalError("encode response")
	}
	return out, nil
}
