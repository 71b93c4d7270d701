// internal/lifecycle/artifacts_test.go
package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"origination-workers/internal/common/errors"
)

func TestAttachArtifact(t *testing.T) {
	app := newTestApplication(t)

	art, err := AttachArtifact(app, KindIdentityDocument, RoleVendor, testTime)
	require.NoError(t, err)

	assert.NotEmpty(t, art.ID)
	assert.Equal(t, ArtifactPending, art.Status)
	assert.Equal(t, StageDocument, art.Stage)
	assert.Equal(t, RoleVendor, art.UploadedBy)
	assert.False(t, art.Superseded)
}

func TestAttachArtifact_UnknownKind(t *testing.T) {
	app := newTestApplication(t)

	_, err := AttachArtifact(app, ArtifactKind("tax-return"), RoleVendor, testTime)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestAttachArtifact_TerminalApplication(t *testing.T) {
	app := newTestApplication(t)
	app.Status = StatusRejected

	_, err := AttachArtifact(app, KindIdentityDocument, RoleVendor, testTime)
	require.Error(t, err)
	assert.True(t, errors.IsIllegalTransition(err))
}

func TestAttachArtifact_DuplicatePendingOrValidated(t *testing.T) {
	app := newTestApplication(t)
	art, err := AttachArtifact(app, KindIncomeProof, RoleVendor, testTime)
	require.NoError(t, err)

	// Pending duplicate.
	_, err = AttachArtifact(app, KindIncomeProof, RoleVendor, testTime)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))

	// Validated duplicate.
	_, err = ValidateArtifact(app, art.ID, RoleAnalyst, testTime)
	require.NoError(t, err)
	_, err = AttachArtifact(app, KindIncomeProof, RoleVendor, testTime)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestAttachArtifact_ReUploadSupersedesRejected(t *testing.T) {
	app := newTestApplication(t)
	first, err := AttachArtifact(app, KindAddressProof, RoleVendor, testTime)
	require.NoError(t, err)
	firstID := first.ID

	_, err = RejectArtifact(app, firstID, "address does not match", RoleAnalyst, testTime)
	require.NoError(t, err)

	second, err := AttachArtifact(app, KindAddressProof, RoleVendor, testTime)
	require.NoError(t, err)

	assert.NotEqual(t, firstID, second.ID)
	assert.Equal(t, ArtifactPending, second.Status)

	// The rejected record stays for audit, marked superseded.
	old := app.ArtifactByID(firstID)
	require.NotNil(t, old)
	assert.True(t, old.Superseded)
	assert.Equal(t, ArtifactRejected, old.Status)
	assert.Equal(t, "address does not match", old.RejectionReason)

	// The live slot for the kind is the fresh upload.
	live := app.LiveArtifactByKind(KindAddressProof)
	require.NotNil(t, live)
	assert.Equal(t, second.ID, live.ID)
}

func TestValidateArtifact(t *testing.T) {
	app := newTestApplication(t)
	art, err := AttachArtifact(app, KindIdentityDocument, RoleVendor, testTime)
	require.NoError(t, err)

	decided, err := ValidateArtifact(app, art.ID, RoleAnalyst, testTime)
	require.NoError(t, err)
	assert.Equal(t, ArtifactValidated, decided.Status)
	assert.Equal(t, RoleAnalyst, decided.DecidedBy)
}

func TestValidateArtifact_VendorDenied(t *testing.T) {
	app := newTestApplication(t)
	art, err := AttachArtifact(app, KindIdentityDocument, RoleVendor, testTime)
	require.NoError(t, err)

	_, err = ValidateArtifact(app, art.ID, RoleVendor, testTime)
	require.Error(t, err)
	assert.True(t, errors.IsPermissionDenied(err))
	assert.Equal(t, ArtifactPending, app.ArtifactByID(art.ID).Status)
}

func TestValidateArtifact_NotFound(t *testing.T) {
	app := newTestApplication(t)

	_, err := ValidateArtifact(app, "missing-id", RoleAnalyst, testTime)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestRejectArtifact_RequiresReason(t *testing.T) {
	app := newTestApplication(t)
	art, err := AttachArtifact(app, KindIdentityDocument, RoleVendor, testTime)
	require.NoError(t, err)

	for _, reason := range []string{"", "   "} {
		_, err = RejectArtifact(app, art.ID, reason, RoleAnalyst, testTime)
		require.Error(t, err)
		assert.True(t, errors.IsInvalidInput(err))
	}
	// The failed rejections left the artifact untouched.
	assert.Equal(t, ArtifactPending, app.ArtifactByID(art.ID).Status)
}

func TestDecideArtifact_SecondVerdictConflicts(t *testing.T) {
	app := newTestApplication(t)
	art, err := AttachArtifact(app, KindIdentityDocument, RoleVendor, testTime)
	require.NoError(t, err)

	_, err = ValidateArtifact(app, art.ID, RoleAnalyst, testTime)
	require.NoError(t, err)

	// Artifact verdicts are terminal; a competing decision conflicts.
	_, err = ValidateArtifact(app, art.ID, RoleAnalyst, testTime)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	_, err = RejectArtifact(app, art.ID, "second thoughts", RoleAnalyst, testTime)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
}

func TestDecideArtifact_SupersededRejectsVerdict(t *testing.T) {
	app := newTestApplication(t)
	first, err := AttachArtifact(app, KindContract, RoleVendor, testTime)
	require.NoError(t, err)
	firstID := first.ID

	_, err = RejectArtifact(app, firstID, "unsigned", RoleAnalyst, testTime)
	require.NoError(t, err)
	_, err = AttachArtifact(app, KindContract, RoleVendor, testTime)
	require.NoError(t, err)

	_, err = ValidateArtifact(app, firstID, RoleAnalyst, testTime)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestAggregatePredicates(t *testing.T) {
	app := newTestApplication(t)

	assert.False(t, RequiredDocumentsAttached(app))
	assert.False(t, RequiredDocumentsValidated(app))

	ids := attachAll(t, app, RequiredDocumentKinds)
	assert.True(t, RequiredDocumentsAttached(app))
	assert.False(t, RequiredDocumentsValidated(app))

	validateAll(t, app, ids)
	assert.True(t, RequiredDocumentsValidated(app))

	assert.False(t, ContractArtifactsAttached(app))
	contractIDs := attachAll(t, app, RequiredContractKinds)
	assert.True(t, ContractArtifactsAttached(app))
	assert.False(t, ContractArtifactsValidated(app))

	validateAll(t, app, contractIDs)
	assert.True(t, ContractArtifactsValidated(app))
}

func TestAnyRequiredRejected_ClearedBySupersede(t *testing.T) {
	app := newTestApplication(t)
	art, err := AttachArtifact(app, KindIncomeProof, RoleVendor, testTime)
	require.NoError(t, err)

	_, err = RejectArtifact(app, art.ID, "stale payslip", RoleAnalyst, testTime)
	require.NoError(t, err)
	assert.True(t, AnyRequiredRejected(app, StageDocument))

	// Re-upload replaces the rejected slot, the stage is clean again.
	_, err = AttachArtifact(app, KindIncomeProof, RoleVendor, testTime)
	require.NoError(t, err)
	assert.False(t, AnyRequiredRejected(app, StageDocument))
}
