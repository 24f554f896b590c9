package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"ms-tours/internal/logger"
)

// QueryLogger is a bun.QueryHook that logs failed and slow queries.
type QueryLogger struct {
	Logger        *logger.Logger
	SlowThreshold time.Duration
}

var _ bun.QueryHook = (*QueryLogger)(nil)

func (h *QueryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryLogger) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	elapsed := time.Since(event.StartTime)

	switch {
	case event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows):
		h.Logger.Error("DATABASE", fmt.Sprintf("[%s] failed after %s: %v", event.Operation(), elapsed, event.Err))
	case h.SlowThreshold > 0 && elapsed > h.SlowThreshold:
		h.Logger.Warn("DATABASE", fmt.Sprintf("[%s] slow query (%s): %s", event.Operation(), elapsed, event.Query))
	default:
		h.Logger.Debug("DATABASE", fmt.Sprintf("[%s] %s", event.Operation(), elapsed))
	}
}
