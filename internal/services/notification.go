package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
)

// BusinessInfo feeds the contact block of every customer email.
type BusinessInfo struct {
	Name            string
	Email           string
	Phone           string
	Address         string
	TrackingBaseURL string
}

// NotificationDispatcher renders and sends status-change emails. Sends are
// at-most-once and best-effort: failures are logged, never propagated into
// the lifecycle mutation that triggered them.
type NotificationDispatcher struct {
	mailer infra.MailerInterface
	biz    BusinessInfo
}

func NewNotificationDispatcher(m infra.MailerInterface, biz BusinessInfo) *NotificationDispatcher {
	return &NotificationDispatcher{mailer: m, biz: biz}
}

var _ Notifier = (*NotificationDispatcher)(nil)

func (d *NotificationDispatcher) Notify(ctx context.Context, order *domain.Order, status domain.OrderStatus, trackingNumber string) bool {
	name := order.Customer.FirstName + " " + order.Customer.LastName
	if err := d.Send(ctx, order.Customer.Email, order.ID, name, status, trackingNumber); err != nil {
		log.Printf("status email for order %s failed: %v", order.ID, err)
		return false
	}
	return true
}

// Send renders the status email and hands it to the mailer. The completed
// status gets its own thank-you template; all others share the update
// template with a status-specific line.
func (d *NotificationDispatcher) Send(ctx context.Context, email, orderID, customerName string, status domain.OrderStatus, trackingNumber string) error {
	if !status.IsValid() {
		return fmt.Errorf("unknown order status %q", status)
	}

	data := mailData{
		OrderID:        orderID,
		CustomerName:   customerName,
		StatusLine:     statusLine(status),
		TrackingNumber: trackingNumber,
		TrackingURL:    d.biz.TrackingBaseURL + trackingNumber,
		Business:       d.biz,
	}

	tmpl := statusUpdateTemplate
	subject := fmt.Sprintf("Order #%s Status Update", orderID)
	if status == domain.StatusCompleted {
		tmpl = completedTemplate
		subject = fmt.Sprintf("Order #%s Completed - Thank You", orderID)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render status email: %w", err)
	}

	return d.mailer.Send(ctx, infra.Mail{
		To:      email,
		Subject: subject,
		HTML:    body.String(),
	})
}

// statusLine covers every status; completed is handled by its own template
// and only needs a line when the shared template is forced onto it.
func statusLine(s domain.OrderStatus) string {
	switch s {
	case domain.StatusPending:
		return "has been received and is pending processing"
	case domain.StatusProcessing:
		return "is now being processed"
	case domain.StatusShipped:
		return "has been shipped"
	case domain.StatusDelivered:
		return "has been delivered"
	case domain.StatusCancelled:
		return "has been cancelled"
	case domain.StatusCompleted:
		return "has been completed"
	}
	return "has been updated"
}

type mailData struct {
	OrderID        string
	CustomerName   string
	StatusLine     string
	TrackingNumber string
	TrackingURL    string
	Business       BusinessInfo
}

var statusUpdateTemplate = template.Must(template.New("status_update").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
  <h2 style="color: #2c5282;">Order Status Update</h2>
  <p>Dear {{.CustomerName}},</p>
  <p>Your order #{{.OrderID}} {{.StatusLine}}.</p>
  {{if .TrackingNumber}}
  <div style="margin: 20px 0; background-color: #f7fafc; border-radius: 5px; padding: 15px;">
    <h3 style="color: #2c5282; margin-bottom: 10px;">Tracking Information</h3>
    <p><strong>Tracking Number:</strong> {{.TrackingNumber}}</p>
    <p>Track your order here: <a href="{{.TrackingURL}}" style="color: #2c5282;">Click to track your order</a></p>
  </div>
  {{end}}
  <div style="margin: 20px 0; padding: 15px; background-color: #f7fafc; border-radius: 5px;">
    <h3 style="color: #2c5282; margin-bottom: 10px;">Contact Information</h3>
    <p><strong>Email:</strong> {{.Business.Email}}</p>
    <p><strong>Phone:</strong> {{.Business.Phone}}</p>
    <p><strong>Address:</strong> {{.Business.Address}}</p>
  </div>
  <p>If you have any questions about your order, please don't hesitate to contact us through any of the above channels.</p>
  <div style="margin-top: 20px; padding-top: 20px; border-top: 1px solid #e2e8f0;">
    <p>Best regards,<br><strong>{{.Business.Name}}</strong></p>
  </div>
</div>
`))

var completedTemplate = template.Must(template.New("completed").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
  <h2 style="color: #2c5282;">Your Order Is Complete</h2>
  <p>Dear {{.CustomerName}},</p>
  <p>Your order #{{.OrderID}} has been completed. Thank you for shopping with us!</p>
  <p>We hope you love your purchase. If anything is not right, reply to this email and we will make it right.</p>
  {{if .TrackingNumber}}
  <p><strong>Tracking Number:</strong> {{.TrackingNumber}}</p>
  {{end}}
  <div style="margin: 20px 0; padding: 15px; background-color: #f7fafc; border-radius: 5px;">
    <h3 style="color: #2c5282; margin-bottom: 10px;">Contact Information</h3>
    <p><strong>Email:</strong> {{.Business.Email}}</p>
    <p><strong>Phone:</strong> {{.Business.Phone}}</p>
    <p><strong>Address:</strong> {{.Business.Address}}</p>
  </div>
  <div style="margin-top: 20px; padding-top: 20px; border-top: 1px solid #e2e8f0;">
    <p>Best regards,<br><strong>{{.Business.Name}}</strong></p>
  </div>
</div>
`))
