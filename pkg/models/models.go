package models

import "time"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Bucket maps a severity to the preference key suffix used in user configs:
// info -> good, warning -> warning, danger -> bad.
func (s Severity) Bucket() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityDanger:
		return "bad"
	default:
		return "good"
	}
}

// Notification is the canonical client-side shape of a server-side event.
// ID is stable across polls for the same event.
type Notification struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Severity   Severity  `json:"severity"`
	SensorCode string    `json:"sensor_code"`
	Value      float64   `json:"value"`
	CreatedAt  time.Time `json:"created_at"`
	Read       bool      `json:"read"`
	UserID     int       `json:"user_id,omitempty"`
	UserName   string    `json:"user_name,omitempty"`
}

// RawNotification is a record exactly as a server endpoint emits it. Field
// names vary between endpoint versions (Spanish and English keys), so records
// go through normalization before anything else touches them.
type RawNotification map[string]any

// UserConfig maps "{sensorCode}_{bucket}" to an allowed flag, e.g. "mq135_bad".
type UserConfig map[string]bool

// Allows reports whether notifications for the sensor/bucket pair should be
// shown. A nil config or a missing key means allowed.
func (c UserConfig) Allows(sensorCode, bucket string) bool {
	if c == nil {
		return true
	}
	allowed, ok := c[sensorCode+"_"+bucket]
	if !ok {
		return true
	}
	return allowed
}

// StateRecord is the gorm entity backing the key/value store.
type StateRecord struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}
