// internal/workers/data-access/index-application/handler_test.go
package indexapplication

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"origination-workers/internal/common/errors"
	"origination-workers/internal/common/logger"
	"origination-workers/internal/lifecycle"
	"origination-workers/internal/repository"
)

// mockTransport records index requests and answers with a canned
// response, so tests run without a live cluster.
type mockTransport struct {
	requests   []*http.Request
	bodies     []string
	statusCode int
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	m.requests = append(m.requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.bodies = append(m.bodies, string(data))
	}
	status := m.statusCode
	if status == 0 {
		status = http.StatusCreated
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"X-Elastic-Product": []string{"Elasticsearch"}},
		Body:       io.NopCloser(strings.NewReader(`{"result":"created"}`)),
	}, nil
}

func createTestConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Index:   "applications",
	}
}

func newTestESClient(t *testing.T, transport *mockTransport) *elasticsearch.Client {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://elasticsearch:9200"},
		Transport: transport,
	})
	require.NoError(t, err)
	return client
}

func seedApplication(t *testing.T, repo *repository.MemoryRepository) *lifecycle.Application {
	t.Helper()
	app, err := lifecycle.NewApplication("app-1", lifecycle.LoanRequest{
		ApplicantID:     "applicant-1",
		VehiclePlate:    "ABC-1234",
		DealerID:        "dealer-1",
		RequestedAmount: 20000,
		DownPayment:     5000,
		TermMonths:      60,
	}, lifecycle.RoleVendor, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), app))
	return app
}

func TestExecute_IndexesProjection(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seedApplication(t, repo)
	transport := &mockTransport{}
	h := NewHandler(createTestConfig(), repo, newTestESClient(t, transport), logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{ApplicationID: "app-1"})
	require.NoError(t, err)

	assert.True(t, output.Indexed)
	assert.Equal(t, "applications", output.Index)
	assert.Equal(t, "app-1", output.ApplicationID)

	require.Len(t, transport.requests, 1)
	req := transport.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/applications/_doc/app-1", req.URL.Path)

	var doc document
	require.NoError(t, json.Unmarshal([]byte(transport.bodies[0]), &doc))
	assert.Equal(t, "app-1", doc.ApplicationID)
	assert.Equal(t, "applicant-1", doc.ApplicantID)
	assert.Equal(t, string(lifecycle.StatusDraft), doc.Status)
	assert.Equal(t, int64(1), doc.Version)
	assert.Equal(t, 0, doc.ArtifactCount)
	assert.False(t, doc.RejectedArtifact)
}

func TestExecute_FlagsRejectedArtifact(t *testing.T) {
	repo := repository.NewMemoryRepository()
	app := seedApplication(t, repo)

	now := time.Now().UTC()
	art, err := lifecycle.AttachArtifact(app, lifecycle.KindIdentityDocument, lifecycle.RoleVendor, now)
	require.NoError(t, err)
	_, err = lifecycle.RejectArtifact(app, art.ID, "illegible scan", lifecycle.RoleAnalyst, now)
	require.NoError(t, err)
	require.NoError(t, repo.Update(context.Background(), app, app.Version))

	transport := &mockTransport{}
	h := NewHandler(createTestConfig(), repo, newTestESClient(t, transport), logger.NewTestLogger(t))

	_, err = h.Execute(context.Background(), &Input{ApplicationID: "app-1"})
	require.NoError(t, err)

	var doc document
	require.NoError(t, json.Unmarshal([]byte(transport.bodies[0]), &doc))
	assert.Equal(t, 1, doc.ArtifactCount)
	assert.True(t, doc.RejectedArtifact)
}

func TestExecute_UnknownApplication(t *testing.T) {
	repo := repository.NewMemoryRepository()
	h := NewHandler(createTestConfig(), repo, newTestESClient(t, &mockTransport{}), logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{ApplicationID: "missing"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestExecute_MissingApplicationID(t *testing.T) {
	repo := repository.NewMemoryRepository()
	h := NewHandler(createTestConfig(), repo, newTestESClient(t, &mockTransport{}), logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestExecute_IndexErrorIsStorageUnavailable(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seedApplication(t, repo)
	transport := &mockTransport{statusCode: http.StatusInternalServerError}
	h := NewHandler(createTestConfig(), repo, newTestESClient(t, transport), logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{ApplicationID: "app-1"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeStorageUnavailable, errors.CodeOf(err))
}
