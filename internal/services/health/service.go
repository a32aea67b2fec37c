package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service. A nil db means the API is
// running on in-memory repositories and the database check is skipped.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status reports overall service health plus the state of the database
// connection when one is configured.
func (s *Service) Status(ctx context.Context) map[string]string {
	out := map[string]string{"status": "healthy"}
	if s.DB == nil {
		out["database"] = "memory"
		return out
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		out["status"] = "degraded"
		out["database"] = "unreachable"
		return out
	}
	out["database"] = "ok"
	return out
}
