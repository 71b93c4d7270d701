// internal/lifecycle/types.go
// Package lifecycle owns the origination application, its documents and
// contract artifacts, and the guarded state machine that moves an
// application from draft to approval.
package lifecycle

import "time"

// Status is the application's current stage in the origination pipeline.
type Status string

const (
	StatusDraft              Status = "DRAFT"
	StatusDocumentsUploaded  Status = "DOCUMENTS_UPLOADED"
	StatusDocumentsValidated Status = "DOCUMENTS_VALIDATED"
	StatusContractUploaded   Status = "CONTRACT_UPLOADED"
	StatusContractValidated  Status = "CONTRACT_VALIDATED"
	StatusApproved           Status = "APPROVED"
	StatusRejected           Status = "REJECTED"
	StatusCancelled          Status = "CANCELLED"
	StatusExpired            Status = "EXPIRED"
)

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusDocumentsUploaded, StatusDocumentsValidated,
		StatusContractUploaded, StatusContractValidated,
		StatusApproved, StatusRejected, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Role is the acting user's role, supplied by the identity provider.
// The engine treats it as opaque except for permission checks.
type Role string

const (
	RoleVendor        Role = "vendor"
	RoleAnalyst       Role = "analyst"
	RoleAdministrator Role = "administrator"
)

// CanValidate reports whether the role holds validation authority over
// documents and contract artifacts.
func (r Role) CanValidate() bool {
	return r == RoleAnalyst || r == RoleAdministrator
}

// CanAdministrate reports whether the role may finalize, cancel or
// expire applications.
func (r Role) CanAdministrate() bool {
	return r == RoleAdministrator
}

// ArtifactStage separates the document intake stage from the contract stage.
type ArtifactStage string

const (
	StageDocument ArtifactStage = "document"
	StageContract ArtifactStage = "contract"
)

// ArtifactKind identifies a required upload slot.
type ArtifactKind string

const (
	KindIdentityDocument ArtifactKind = "identity-document"
	KindIncomeProof      ArtifactKind = "income-proof"
	KindAddressProof     ArtifactKind = "address-proof"
	KindContract         ArtifactKind = "contract"
	KindPromissoryNote   ArtifactKind = "promissory-note"
)

// RequiredDocumentKinds are the identity/financial documents that must
// be attached before leaving DRAFT.
var RequiredDocumentKinds = []ArtifactKind{
	KindIdentityDocument,
	KindIncomeProof,
	KindAddressProof,
}

// RequiredContractKinds are the two contract-stage artifacts.
var RequiredContractKinds = []ArtifactKind{
	KindContract,
	KindPromissoryNote,
}

// StageOf maps a kind to its lifecycle stage.
func StageOf(kind ArtifactKind) ArtifactStage {
	if kind == KindContract || kind == KindPromissoryNote {
		return StageContract
	}
	return StageDocument
}

// ValidKind reports whether the kind names a known upload slot.
func ValidKind(kind ArtifactKind) bool {
	switch kind {
	case KindIdentityDocument, KindIncomeProof, KindAddressProof,
		KindContract, KindPromissoryNote:
		return true
	}
	return false
}

// ArtifactStatus is the per-artifact validation marker.
type ArtifactStatus string

const (
	ArtifactPending   ArtifactStatus = "PENDING"
	ArtifactValidated ArtifactStatus = "VALIDATED"
	ArtifactRejected  ArtifactStatus = "REJECTED"
)

// Artifact is one uploaded document or contract artifact. Only metadata
// and validation state live here; binary storage is a collaborator
// concern.
type Artifact struct {
	ID              string         `json:"id"`
	Kind            ArtifactKind   `json:"kind"`
	Stage           ArtifactStage  `json:"stage"`
	Status          ArtifactStatus `json:"status"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
	// Superseded marks a rejected artifact that was replaced by a
	// re-upload. The record is retained for audit.
	Superseded bool      `json:"superseded"`
	UploadedBy Role      `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
	DecidedBy  Role      `json:"decidedBy,omitempty"`
	DecidedAt  time.Time `json:"decidedAt,omitempty"`
}

// LoanRequest identifies one origination attempt. Immutable once the
// application leaves DRAFT.
type LoanRequest struct {
	ApplicantID     string  `json:"applicantId"`
	VehiclePlate    string  `json:"vehiclePlate"`
	DealerID        string  `json:"dealerId"`
	VendorID        string  `json:"vendorId"`
	ProductID       string  `json:"productId"`
	RequestedAmount float64 `json:"requestedAmount"`
	DownPayment     float64 `json:"downPayment"`
	TermMonths      int     `json:"termMonths"`
}

// HistoryEntry records one status transition. Entries are append-only.
type HistoryEntry struct {
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	Actor     Role      `json:"actor"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Application is the persistent envelope for one origination attempt.
// Mutated only through guarded transitions; never physically deleted.
type Application struct {
	ID        string         `json:"id"`
	Request   LoanRequest    `json:"request"`
	Status    Status         `json:"status"`
	Version   int64          `json:"version"`
	History   []HistoryEntry `json:"history"`
	Artifacts []Artifact     `json:"artifacts"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// LiveArtifacts returns the non-superseded artifacts for a stage.
func (a *Application) LiveArtifacts(stage ArtifactStage) []Artifact {
	out := make([]Artifact, 0, len(a.Artifacts))
	for _, art := range a.Artifacts {
		if art.Stage == stage && !art.Superseded {
			out = append(out, art)
		}
	}
	return out
}

// LiveArtifactByKind returns the current (non-superseded) artifact for
// a kind, or nil.
func (a *Application) LiveArtifactByKind(kind ArtifactKind) *Artifact {
	for i := range a.Artifacts {
		if a.Artifacts[i].Kind == kind && !a.Artifacts[i].Superseded {
			return &a.Artifacts[i]
		}
	}
	return nil
}

// ArtifactByID returns the artifact with the given id, or nil.
func (a *Application) ArtifactByID(id string) *Artifact {
	for i := range a.Artifacts {
		if a.Artifacts[i].ID == id {
			return &a.Artifacts[i]
		}
	}
	return nil
}
