// internal/workers/origination/create-application/models.go
package createapplication

type Input struct {
	ApplicantID     string  `json:"applicantId"`
	VehiclePlate    string  `json:"vehiclePlate"`
	DealerID        string  `json:"dealerId"`
	VendorID        string  `json:"vendorId"`
	ProductID       string  `json:"productId"`
	RequestedAmount float64 `json:"requestedAmount"`
	DownPayment     float64 `json:"downPayment"`
	TermMonths      int     `json:"termMonths"`
	ActorRole       string  `json:"actorRole"`
}

type Output struct {
	ApplicationID     string `json:"applicationId"`
	ApplicationStatus string `json:"applicationStatus"`
	Version           int64  `json:"version"`
	CreatedAt         string `json:"createdAt"` // ISO 8601
}
