// internal/workers/communication/notify-decision/handler_test.go
package notifydecision

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"origination-workers/internal/common/logger"
)

type mockSES struct {
	calls []*ses.SendEmailInput
	err   error
}

func (m *mockSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.calls = append(m.calls, params)
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	calls []*sns.PublishInput
	err   error
}

func (m *mockSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.calls = append(m.calls, params)
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{}, nil
}

func newTestHandler(t *testing.T, cfg *Config, sesMock SESService, snsMock SNSService) *Handler {
	t.Helper()
	return &Handler{
		config:    cfg,
		logger:    logger.NewTestLogger(t).WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient: sesMock,
		snsClient: snsMock,
	}
}

func createTestConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		AWSRegion:    "us-east-1",
		FromEmail:    "credit@example.com",
		EmailEnabled: true,
		SMSEnabled:   true,
	}
}

func testInput() *Input {
	return &Input{
		ApplicationID:  "app-1",
		Decision:       "approved",
		RecipientEmail: "applicant@example.com",
	}
}

func TestExecute_SendsEmail(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	h := newTestHandler(t, createTestConfig(), sesMock, snsMock)

	output, err := h.Execute(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, StatusSent, output.Status)
	assert.NotEmpty(t, output.NotificationID)
	assert.NotEmpty(t, output.SentAt)

	require.Len(t, sesMock.calls, 1)
	call := sesMock.calls[0]
	assert.Equal(t, "credit@example.com", *call.Source)
	assert.Equal(t, []string{"applicant@example.com"}, call.Destination.ToAddresses)
	assert.Equal(t, "Credit application app-1: APPROVED", *call.Message.Subject.Data)
	assert.Contains(t, *call.Message.Body.Text.Data, "has been approved")
	assert.Empty(t, snsMock.calls)
}

func TestExecute_RejectionIncludesReason(t *testing.T) {
	sesMock := &mockSES{}
	h := newTestHandler(t, createTestConfig(), sesMock, &mockSNS{})

	input := testInput()
	input.Decision = "rejected"
	input.Reason = "installment exceeds payment capacity"

	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)

	require.Len(t, sesMock.calls, 1)
	body := *sesMock.calls[0].Message.Body.Text.Data
	assert.Contains(t, body, "has been rejected")
	assert.Contains(t, body, "Reason: installment exceeds payment capacity")
}

func TestExecute_EmailFailureReportsFailedStatus(t *testing.T) {
	sesMock := &mockSES{err: fmt.Errorf("ses throttled")}
	h := newTestHandler(t, createTestConfig(), sesMock, &mockSNS{})

	output, err := h.Execute(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, output.Status)
}

func TestExecute_SMSOnlyForHighPriority(t *testing.T) {
	snsMock := &mockSNS{}
	h := newTestHandler(t, createTestConfig(), &mockSES{}, snsMock)

	input := testInput()
	input.RecipientPhone = "+15550001234"

	_, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Empty(t, snsMock.calls, "normal priority must not trigger SMS")

	input.Priority = "high"
	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)

	require.Len(t, snsMock.calls, 1)
	assert.Equal(t, "+15550001234", *snsMock.calls[0].PhoneNumber)
}

func TestExecute_AllChannelsDisabled(t *testing.T) {
	cfg := createTestConfig()
	cfg.EmailEnabled = false
	cfg.SMSEnabled = false
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	h := newTestHandler(t, cfg, sesMock, snsMock)

	output, err := h.Execute(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, StatusDisabled, output.Status)
	assert.Empty(t, sesMock.calls)
	assert.Empty(t, snsMock.calls)
}

func TestExecute_InputValidation(t *testing.T) {
	h := newTestHandler(t, createTestConfig(), &mockSES{}, &mockSNS{})

	tests := []struct {
		name   string
		modify func(*Input)
	}{
		{"missing application id", func(i *Input) { i.ApplicationID = "" }},
		{"missing decision", func(i *Input) { i.Decision = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := testInput()
			tt.modify(input)
			_, err := h.Execute(context.Background(), input)
			assert.Error(t, err)
		})
	}
}
