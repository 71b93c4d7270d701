// internal/workers/origination/attach-artifact/models.go
package attachartifact

type Input struct {
	ApplicationID string `json:"applicationId"`
	Kind          string `json:"kind"`
	ActorRole     string `json:"actorRole"`
	// ExpectedVersion is the version the caller read. Zero means "the
	// version read within this job", for strictly sequential process
	// flows.
	ExpectedVersion int64 `json:"expectedVersion,omitempty"`
}

type Output struct {
	ArtifactID        string `json:"artifactId"`
	ArtifactStatus    string `json:"artifactStatus"`
	ApplicationStatus string `json:"applicationStatus"`
	Version           int64  `json:"version"`
}
