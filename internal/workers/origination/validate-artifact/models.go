// internal/workers/origination/validate-artifact/models.go
package validateartifact

const (
	VerdictValidated = "validated"
	VerdictRejected  = "rejected"
)

type Input struct {
	ApplicationID string `json:"applicationId"`
	ArtifactID    string `json:"artifactId"`
	Verdict       string `json:"verdict"` // "validated" or "rejected"
	Reason        string `json:"reason,omitempty"`
	ActorRole     string `json:"actorRole"`
	// ExpectedVersion guards against a concurrent validator deciding
	// the same cycle. Zero means "the version read within this job".
	ExpectedVersion int64 `json:"expectedVersion,omitempty"`
}

type Output struct {
	ArtifactStatus    string `json:"artifactStatus"`
	ApplicationStatus string `json:"applicationStatus"`
	Version           int64  `json:"version"`
}
