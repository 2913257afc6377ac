package amqp

import (
	"encoding/json"
	"time"
)

// Alert types carried on the queue.
const (
	AlertBudgetExceeded = "BUDGET_EXCEEDED"
	AlertBudgetWarning  = "BUDGET_WARNING"
	AlertCardDueSoon    = "CARD_DUE_SOON"
	AlertGoalOverdue    = "GOAL_OVERDUE"
)

// AlertMessage is a lightweight notification envelope. The consumer fetches
// whatever detail it needs from the database; the message carries only enough
// to render and route the notification.
type AlertMessage struct {
	AlertID   string    `json:"alert_id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewAlertMessage creates an alert message stamped with the current time
func NewAlertMessage(alertID, userID, alertType, message string) *AlertMessage {
	return &AlertMessage{
		AlertID:   alertID,
		UserID:    userID,
		Type:      alertType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AlertMessageFromJSON creates a message from JSON bytes
func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
