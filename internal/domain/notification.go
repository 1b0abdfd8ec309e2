package domain

import "time"

// Notification delivery outcomes.
const (
	NotifySent   = "sent"
	NotifyFailed = "failed"
)

// NotificationLog is the audit trail of dispatched status-change messages.
// Rows record the attempt outcome only; delivery failures never surface to
// the operation that triggered them.
type NotificationLog struct {
	ID        int64     `json:"id,string" gorm:"primaryKey"`
	OrderID   int64     `gorm:"index" json:"order_id,string"`
	Recipient string    `gorm:"size:200" json:"recipient"`
	Subject   string    `gorm:"size:255" json:"subject"`
	Status    string    `gorm:"size:16;index" json:"status"`
	ErrorMsg  string    `gorm:"type:text" json:"error_msg"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName Specify table name
func (NotificationLog) TableName() string {
	return "mkt_notification_log"
}
