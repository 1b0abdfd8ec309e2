package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agriconnect/agrimarket/internal/domain"
	"github.com/agriconnect/agrimarket/pkg/common"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

type fakeSettings struct {
	enabled bool
}

func (f *fakeSettings) GetSettingsStringValue(category, key string) string { return "" }
func (f *fakeSettings) GetSettingsInt64Value(category, key string) int64   { return 0 }
func (f *fakeSettings) GetSettingsBoolValue(category, key string) bool {
	return f.enabled
}

type fakeDispatcher struct {
	sent []Message
	err  error
}

func (f *fakeDispatcher) Send(m Message) error {
	f.sent = append(f.sent, m)
	return f.err
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:            common.UUIDint64(),
		Reference:     "AB12CD34",
		CustomerName:  "Asha",
		CustomerEmail: "asha@example.com",
		Farmer:        "Ravi",
		TotalAmount:   330,
		Status:        domain.OrderStatusReadyForPickup,
	}
}

func TestHandleStatusChangedSendsAndLogs(t *testing.T) {
	db := newTestDB(t)
	farmer := &domain.User{ID: common.UUIDint64(), Name: "Ravi", Email: "ravi@example.com"}
	require.NoError(t, db.Create(farmer).Error)

	dispatcher := &fakeDispatcher{}
	n := New(db, &fakeSettings{enabled: true}, dispatcher)

	o := testOrder()
	n.HandleStatusChanged(o)

	require.Len(t, dispatcher.sent, 1)
	msg := dispatcher.sent[0]
	assert.Equal(t, "asha@example.com", msg.To)
	assert.Equal(t, "Your AgriMarket Order Status: Ready for Pickup", msg.Subject)
	assert.Equal(t, "ravi@example.com", msg.ReplyTo)
	assert.Contains(t, msg.Body, "AB12CD34")
	assert.Contains(t, msg.Body, "ready for pickup")

	var logs []domain.NotificationLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, o.ID, logs[0].OrderID)
	assert.Equal(t, domain.NotifySent, logs[0].Status)
	assert.Empty(t, logs[0].ErrorMsg)
}

func TestHandleStatusChangedDeliveryFailureIsSwallowed(t *testing.T) {
	db := newTestDB(t)
	dispatcher := &fakeDispatcher{err: errors.New("smtp connection refused")}
	n := New(db, &fakeSettings{enabled: true}, dispatcher)

	n.HandleStatusChanged(testOrder())

	var logs []domain.NotificationLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.NotifyFailed, logs[0].Status)
	assert.Contains(t, logs[0].ErrorMsg, "smtp connection refused")
}

func TestHandleStatusChangedSkipsWhenDisabled(t *testing.T) {
	db := newTestDB(t)
	dispatcher := &fakeDispatcher{}
	n := New(db, &fakeSettings{enabled: false}, dispatcher)

	n.HandleStatusChanged(testOrder())

	assert.Empty(t, dispatcher.sent)
	var count int64
	require.NoError(t, db.Model(&domain.NotificationLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHandleStatusChangedSkipsEmptyRecipient(t *testing.T) {
	db := newTestDB(t)
	dispatcher := &fakeDispatcher{}
	n := New(db, &fakeSettings{enabled: true}, dispatcher)

	o := testOrder()
	o.CustomerEmail = ""
	n.HandleStatusChanged(o)
	n.HandleStatusChanged(nil)

	assert.Empty(t, dispatcher.sent)
}

func TestComposeStatusBody(t *testing.T) {
	o := testOrder()
	o.Status = domain.OrderStatusCompleted

	body := ComposeStatusBody(o)
	assert.Contains(t, body, "Hello Asha")
	assert.Contains(t, body, "Thank you for collecting your order")
	assert.Contains(t, body, "#AB12CD34")
	assert.Contains(t, body, "330.00")
}
