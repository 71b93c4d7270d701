// internal/workers/origination/validate-artifact/handler_test.go
package validateartifact

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"origination-workers/internal/common/errors"
	"origination-workers/internal/common/logger"
	"origination-workers/internal/lifecycle"
	"origination-workers/internal/repository"
)

func createTestConfig() *Config {
	return &Config{Timeout: 10 * time.Second}
}

// seedWithDocuments creates an application in DOCUMENTS_UPLOADED with
// all three required documents pending, returning their artifact ids.
func seedWithDocuments(t *testing.T, repo *repository.MemoryRepository) []string {
	t.Helper()
	now := time.Now().UTC()
	app, err := lifecycle.NewApplication("app-1", lifecycle.LoanRequest{
		ApplicantID:     "applicant-1",
		VehiclePlate:    "ABC-1234",
		RequestedAmount: 20000,
		DownPayment:     5000,
		TermMonths:      60,
	}, lifecycle.RoleVendor, now)
	require.NoError(t, err)

	ids := make([]string, 0, 3)
	for _, kind := range lifecycle.RequiredDocumentKinds {
		art, err := lifecycle.AttachArtifact(app, kind, lifecycle.RoleVendor, now)
		require.NoError(t, err)
		ids = append(ids, art.ID)
	}
	_, err = lifecycle.Transition(app, lifecycle.StatusDocumentsUploaded, lifecycle.RoleVendor, "", now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), app))
	return ids
}

func TestExecute_ValidatesSingleArtifact(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ids := seedWithDocuments(t, repo)
	h := NewHandler(createTestConfig(), repo, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-1",
		ArtifactID:    ids[0],
		Verdict:       VerdictValidated,
		ActorRole:     "analyst",
	})
	require.NoError(t, err)

	assert.Equal(t, string(lifecycle.ArtifactValidated), output.ArtifactStatus)
	// Two documents still pending: no aggregate movement yet.
	assert.Equal(t, string(lifecycle.StatusDocumentsUploaded), output.ApplicationStatus)
}

func TestExecute_LastVerdictAdvancesStage(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ids := seedWithDocuments(t, repo)
	h := NewHandler(createTestConfig(), repo, logger.NewTestLogger(t))

	var output *Output
	var err error
	for _, id := range ids {
		output, err = h.Execute(context.Background(), &Input{
			ApplicationID: "app-1",
			ArtifactID:    id,
			Verdict:       VerdictValidated,
			ActorRole:     "analyst",
		})
		require.NoError(t, err)
	}

	assert.Equal(t, string(lifecycle.StatusDocumentsValidated), output.ApplicationStatus)
}

func TestExecute_RejectionMovesApplicationToRejected(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ids := seedWithDocuments(t, repo)
	h := NewHandler(createTestConfig(), repo, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-1",
		ArtifactID:    ids[1],
		Verdict:       VerdictRejected,
		Reason:        "payslip older than 90 days",
		ActorRole:     "analyst",
	})
	require.NoError(t, err)

	assert.Equal(t, string(lifecycle.ArtifactRejected), output.ArtifactStatus)
	assert.Equal(t, string(lifecycle.StatusRejected), output.ApplicationStatus)

	stored, err := repo.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, "payslip older than 90 days", stored.ArtifactByID(ids[1]).RejectionReason)
}

func TestExecute_RejectionWithoutReason(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ids := seedWithDocuments(t, repo)
	h := NewHandler(createTestConfig(), repo, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-1",
		ArtifactID:    ids[0],
		Verdict:       VerdictRejected,
		ActorRole:     "analyst",
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))

	// The failed verdict changed nothing.
	stored, err := repo.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.ArtifactPending, stored.ArtifactByID(ids[0]).Status)
}

func TestExecute_VendorCannotValidate(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ids := seedWithDocuments(t, repo)
	h := NewHandler(createTestConfig(), repo, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-1",
		ArtifactID:    ids[0],
		Verdict:       VerdictValidated,
		ActorRole:     "vendor",
	})
	require.Error(t, err)
	assert.True(t, errors.IsPermissionDenied(err))
}

func TestExecute_UnknownVerdict(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ids := seedWithDocuments(t, repo)
	h := NewHandler(createTestConfig(), repo, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-1",
		ArtifactID:    ids[0],
		Verdict:       "approved",
		ActorRole:     "analyst",
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestExecute_SecondVerdictConflicts(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ids := seedWithDocuments(t, repo)
	h := NewHandler(createTestConfig(), repo, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-1",
		ArtifactID:    ids[0],
		Verdict:       VerdictValidated,
		ActorRole:     "analyst",
	})
	require.NoError(t, err)

	_, err = h.Execute(context.Background(), &Input{
		ApplicationID: "app-1",
		ArtifactID:    ids[0],
		Verdict:       VerdictRejected,
		Reason:        "changed my mind",
		ActorRole:     "analyst",
	})
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
}

func TestExecute_ArtifactNotFound(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seedWithDocuments(t, repo)
	h := NewHandler(createTestConfig(), repo, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-1",
		ArtifactID:    "missing-artifact",
		Verdict:       VerdictValidated,
		ActorRole:     "analyst",
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
