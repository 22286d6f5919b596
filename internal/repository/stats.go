package repository

import (
	"context"

	"github.com/joseph-ayodele/nfse-ingest/constants"
	"github.com/joseph-ayodele/nfse-ingest/internal/common"
)

// Stats counts the rows of each reported table.
func (r *queryRepository) Stats(ctx context.Context) ([]TableCount, error) {
	out := make([]TableCount, 0, len(constants.StatsTables))
	for _, table := range constants.StatsTables {
		n, err := countRows(ctx, r.drv, table)
		if err != nil {
			r.logger.Error("failed to count rows", "table", table, "error", err)
			return nil, common.WrapError(err, "count "+table)
		}
		out = append(out, TableCount{Table: table, Count: n})
	}
	return out, nil
}
