package application

import (
	"context"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// InspectorChecker reports whether the stream inspector can run.
type InspectorChecker interface {
	CheckAvailable(ctx context.Context) error
}

// HealthService orchestrates health checks for the application and its dependencies.
type HealthService struct {
	db        Pinger
	inspector InspectorChecker
}

// NewHealthService creates a new health check service.
func NewHealthService(db Pinger, inspector InspectorChecker) *HealthService {
	return &HealthService{
		db:        db,
		inspector: inspector,
	}
}

// ComponentHealth represents the health status of a single component.
type ComponentHealth struct {
	Status string // "ok" or "error"
	Error  string // empty if status is "ok", otherwise contains error message
}

// HealthStatus represents the overall health status of the application.
type HealthStatus struct {
	Status    string          // "ok" if all components are healthy, "degraded" otherwise
	DB        ComponentHealth // database health
	Inspector ComponentHealth // ffprobe availability
}

// Check performs health checks on all dependencies.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{Status: "ok"}

	status.DB = componentHealth(s.db.Ping(ctx))
	status.Inspector = componentHealth(s.inspector.CheckAvailable(ctx))

	if status.DB.Status != "ok" || status.Inspector.Status != "ok" {
		status.Status = "degraded"
	}
	return status
}

func componentHealth(err error) ComponentHealth {
	if err != nil {
		return ComponentHealth{Status: "error", Error: err.Error()}
	}
	return ComponentHealth{Status: "ok"}
}
