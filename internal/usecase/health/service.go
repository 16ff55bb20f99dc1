package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all configured components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. The chat surface stays up on its
	// fallback paths.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckUnconfigured indicates an optional component that was never set
	// up. Not a failure: the engine runs without it.
	CheckUnconfigured CheckResult = "unconfigured"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks. Every dependency is optional; only a
// configured component that fails its check degrades the report.
type Service struct {
	db                  DBPinger
	embedding           EmbeddingChecker
	generatorConfigured bool
}

// New creates a Service. db and embedding can be nil.
func New(db DBPinger, embedding EmbeddingChecker, generatorConfigured bool) *Service {
	return &Service{db: db, embedding: embedding, generatorConfigured: generatorConfigured}
}

/// Check runs health checks against all components. It never fails: the
// report itself is always produced.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.db == nil {
		checks["database"] = CheckUnconfigured
	} else if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.embedding == nil {
		checks["embedding"] = CheckUnconfigured
	} else if err := s.embedding.HealthCheck(ctx); err != nil {
		checks["embedding"] = CheckError
	} else {
		checks["embedding"] = CheckOK
	}

	if s.generatorConfigured {
		checks["generation"] = CheckOK
	} else {
		checks["generation"] = CheckUnconfigured
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
