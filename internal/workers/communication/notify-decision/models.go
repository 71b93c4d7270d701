// internal/workers/communication/notify-decision/models.go
package notifydecision

const (
	StatusSent     = "SENT"
	StatusFailed   = "FAILED"
	StatusDisabled = "DISABLED"
)

type Input struct {
	ApplicationID  string `json:"applicationId"`
	Decision       string `json:"decision"`
	Reason         string `json:"reason,omitempty"`
	RecipientEmail string `json:"recipientEmail,omitempty"`
	RecipientPhone string `json:"recipientPhone,omitempty"`
	Priority       string `json:"priority,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"`
	SentAt         string `json:"sentAt"`
}
