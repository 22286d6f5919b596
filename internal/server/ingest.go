package server

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/nfse-ingest/internal/common"
)

// IngestFile expects {"path": "..."} naming a file readable by the server.
func (s *NFSeServer) IngestFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.ingestor == nil {
		return nil, status.Error(codes.Unimplemented, "file ingestion is not enabled")
	}
	path := strings.TrimSpace(stringField(req, "path"))
	if err := common.ValidateAndReturnError(common.NewValidator().Field("path", path, common.Required)); err != nil {
		s.logger.Error("ingest request missing path")
		return nil, err
	}

	s.logger.Info("starting file ingest", "path", path)
	res, err := s.ingestor.IngestPath(ctx, path)
	if err != nil {
		s.logger.Warn("file ingest failed", "path", path, "error", err)
	}
	return s.reply(res)
}

// IngestDirectory expects {"root": "...", "include_exts": [...], "skip_hidden": bool}.
func (s *NFSeServer) IngestDirectory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.ingestor == nil {
		return nil, status.Error(codes.Unimplemented, "file ingestion is not enabled")
	}
	root := strings.TrimSpace(stringField(req, "root"))
	if err := common.ValidateAndReturnError(common.NewValidator().Field("root", root, common.Required)); err != nil {
		s.logger.Error("ingest directory request missing root")
		return nil, err
	}

	s.logger.Info("starting directory ingest", "root", root)
	results, stats, err := s.ingestor.IngestDirectory(ctx, root, stringsField(req, "include_exts"), boolField(req, "skip_hidden"))
	if err != nil {
		s.logger.Error("directory ingest failed", "root", root, "error", err)
		return nil, common.InvalidArgumentErrorf("ingest directory: %v", err)
	}
	return s.reply(map[string]any{"results": results, "stats": stats})
}
