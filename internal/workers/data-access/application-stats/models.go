// internal/workers/data-access/application-stats/models.go
package applicationstats

type Input struct {
	// Refresh bypasses the cached snapshot when true.
	Refresh bool `json:"refresh,omitempty"`
}

type Output struct {
	ByStatus         map[string]int64 `json:"byStatus"`
	PendingDocuments int64            `json:"pendingDocuments"`
	PendingContracts int64            `json:"pendingContracts"`
	GeneratedAt      string           `json:"generatedAt"`
	FromCache        bool             `json:"fromCache"`
}
