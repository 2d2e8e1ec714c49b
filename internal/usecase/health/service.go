package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the catalog API is down; lookups fail but the
	// overlay keeps serving.
	Degraded Status = "degraded"
	// Unhealthy indicates the index tables are unavailable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentIndex   = "index"
	ComponentCatalog = "catalog"
)

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	index   IndexPinger
	catalog CatalogChecker
}

// New creates a Service. catalog can be nil.
func New(index IndexPinger, catalog CatalogChecker) *Service {
	return &Service{index: index, catalog: catalog}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	status := Healthy
	if err := s.index.Ping(ctx); err != nil {
		checks[ComponentIndex] = CheckError
		status = Unhealthy
	} else {
		checks[ComponentIndex] = CheckOK
	}

	if s.catalog != nil {
		if err := s.catalog.HealthCheck(ctx); err != nil {
			checks[ComponentCatalog] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks[ComponentCatalog] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
