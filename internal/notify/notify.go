package notify

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"github.com/agriconnect/agrimarket/internal/app"
	"github.com/agriconnect/agrimarket/internal/domain"
	"github.com/agriconnect/agrimarket/internal/order"
	"github.com/agriconnect/agrimarket/pkg/common"
)

// Message is one outgoing notification. The transport and its credentials
// come from system settings, not from the caller.
type Message struct {
	To      string
	Subject string
	ReplyTo string
	Body    string
}

// Dispatcher attempts a single delivery. Implementations report the outcome
// but callers treat it as advisory only.
type Dispatcher interface {
	Send(m Message) error
}

// SMTPDispatcher delivers messages over SMTP configured in system settings.
type SMTPDispatcher struct {
	settings app.SettingsProvider
}

// NewSMTPDispatcher creates an SMTP dispatcher reading smtp.* settings.
func NewSMTPDispatcher(settings app.SettingsProvider) *SMTPDispatcher {
	return &SMTPDispatcher{settings: settings}
}

func (d *SMTPDispatcher) Send(m Message) error {
	host := d.settings.GetSettingsStringValue("smtp", "Host")
	port := int(d.settings.GetSettingsInt64Value("smtp", "Port"))
	username := d.settings.GetSettingsStringValue("smtp", "Username")
	password := d.settings.GetSettingsStringValue("smtp", "Password")
	from := d.settings.GetSettingsStringValue("smtp", "From")
	if host == "" || port == 0 {
		return fmt.Errorf("smtp transport not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	if m.ReplyTo != "" {
		msg.SetHeader("Reply-To", m.ReplyTo)
	}
	msg.SetBody("text/html", m.Body)

	return gomail.NewDialer(host, port, username, password).DialAndSend(msg)
}

var statusMessages = map[string]string{
	domain.OrderStatusConfirmed:      "Your order has been confirmed and is being processed.",
	domain.OrderStatusReadyForPickup: "Your order is ready for pickup! Please collect it at your convenience.",
	domain.OrderStatusCompleted:      "Thank you for collecting your order. We hope you enjoy your fresh produce!",
}

// Notifier turns order status changes into customer notifications. Delivery
// is best-effort and single-attempt: every outcome is logged to the
// notification log, nothing propagates back to the status transition.
type Notifier struct {
	db         *gorm.DB
	settings   app.SettingsProvider
	dispatcher Dispatcher
}

// New creates a notifier. A nil dispatcher defaults to SMTP from settings.
func New(db *gorm.DB, settings app.SettingsProvider, dispatcher Dispatcher) *Notifier {
	if dispatcher == nil {
		dispatcher = NewSMTPDispatcher(settings)
	}
	return &Notifier{db: db, settings: settings, dispatcher: dispatcher}
}

// Subscribe registers the notifier on the event bus. The handler runs on the
// bus's async worker, fully decoupled from the publishing request.
func (n *Notifier) Subscribe(bus EventBus.Bus) error {
	return bus.SubscribeAsync(order.TopicStatusChanged, n.HandleStatusChanged, false)
}

// HandleStatusChanged sends the status-specific message for an order. It
// never returns an error; failures are logged and recorded only.
func (n *Notifier) HandleStatusChanged(o *domain.Order) {
	if o == nil || o.CustomerEmail == "" {
		return
	}
	if !n.settings.GetSettingsBoolValue("notify", "Enabled") {
		return
	}

	// Reply-To routes customer questions straight to the farmer
	replyTo := ""
	var farmer domain.User
	if err := n.db.Where("name = ?", o.Farmer).First(&farmer).Error; err == nil {
		replyTo = farmer.Email
	} else {
		zap.L().Warn("notify: farmer lookup failed",
			zap.String("farmer", o.Farmer),
			zap.Error(err))
	}

	msg := Message{
		To:      o.CustomerEmail,
		Subject: fmt.Sprintf("Your AgriMarket Order Status: %s", o.Status),
		ReplyTo: replyTo,
		Body:    ComposeStatusBody(o),
	}

	logEntry := domain.NotificationLog{
		ID:        common.UUIDint64(),
		OrderID:   o.ID,
		Recipient: msg.To,
		Subject:   msg.Subject,
		Status:    domain.NotifySent,
	}

	if err := n.dispatcher.Send(msg); err != nil {
		logEntry.Status = domain.NotifyFailed
		logEntry.ErrorMsg = err.Error()
		zap.L().Error("notify: status update delivery failed",
			zap.Int64("order_id", o.ID),
			zap.String("recipient", msg.To),
			zap.Error(err))
	} else {
		zap.L().Info("notify: status update sent",
			zap.Int64("order_id", o.ID),
			zap.String("recipient", msg.To))
	}

	if err := n.db.Create(&logEntry).Error; err != nil {
		zap.L().Warn("notify: failed to write notification log", zap.Error(err))
	}
}

// ComposeStatusBody renders the status-change mail body for an order.
func ComposeStatusBody(o *domain.Order) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px;">
  <h2>Order Status Update</h2>
  <p>Hello %s,</p>
  <p>%s</p>
  <p>Order ID: #%s</p>
  <p>Current Status: <strong>%s</strong></p>
  <p>Total Amount: ₹%.2f</p>
  <hr>
  <p>If you have any questions, you can reply to this email to contact the farmer directly.</p>
  <p>Thank you for using AgriMarket!</p>
</div>`, o.CustomerName, statusMessages[o.Status], o.Reference, o.Status, o.TotalAmount)
}
