// internal/workers/data-access/index-application/models.go
package indexapplication

type Input struct {
	ApplicationID string `json:"applicationId"`
}

// document is the flattened search projection of an application. The
// canonical record stays in Postgres; this index exists for console
// lookups by applicant, plate or status.
type document struct {
	ApplicationID    string  `json:"applicationId"`
	ApplicantID      string  `json:"applicantId"`
	VehiclePlate     string  `json:"vehiclePlate"`
	DealerID         string  `json:"dealerId"`
	VendorID         string  `json:"vendorId"`
	ProductID        string  `json:"productId"`
	Status           string  `json:"status"`
	Version          int64   `json:"version"`
	RequestedAmount  float64 `json:"requestedAmount"`
	TermMonths       int     `json:"termMonths"`
	ArtifactCount    int     `json:"artifactCount"`
	RejectedArtifact bool    `json:"rejectedArtifact"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

type Output struct {
	ApplicationID string `json:"applicationId"`
	Indexed       bool   `json:"indexed"`
	Index         string `json:"index"`
}
