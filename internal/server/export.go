package server

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/nfse-ingest/internal/common"
)

// ExportInvoices returns every stored invoice as an XLSX workbook.
func (s *NFSeServer) ExportInvoices(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	if s.exporter == nil {
		return nil, status.Error(codes.Unimplemented, "export is not enabled")
	}
	xlsx, err := s.exporter.ExportInvoicesXLSX(ctx)
	if err != nil {
		s.logger.Error("export failed", "error", err)
		return nil, common.InternalError(err.Error())
	}
	return wrapperspb.Bytes(xlsx), nil
}
