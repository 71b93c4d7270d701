// internal/workers/origination/transition-application/models.go
package transitionapplication

// Input carries an explicit lifecycle transition request. Target is the
// destination status name; ExpectedVersion of zero means "the version
// read within this job".
type Input struct {
	ApplicationID   string `json:"applicationId"`
	Target          string `json:"target"`
	Reason          string `json:"reason,omitempty"`
	ActorRole       string `json:"actorRole"`
	ExpectedVersion int64  `json:"expectedVersion,omitempty"`
}

type Output struct {
	ApplicationID string `json:"applicationId"`
	From          string `json:"from"`
	Status        string `json:"status"`
	Version       int64  `json:"version"`
	TransitionAt  string `json:"transitionAt"`
}
