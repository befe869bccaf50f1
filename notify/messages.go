package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/utils"
)

const brand = "apebrain.cloud"

// Subjects of the order e-mails
const (
	SubjectNewOrder          = "🛍️ Neue Bestellung - " + brand
	SubjectPaymentConfirmed  = "✅ Bestellbestätigung - " + brand
	SubjectShipped           = "📦 Ihre Bestellung wurde versendet - " + brand
	SubjectDelivered         = "🏠 Ihre Bestellung wurde zugestellt - " + brand
	SubjectStatusUpdate      = "📬 Update zu Ihrer Bestellung - " + brand
	SubjectDeliveryCompleted = "✅ Bestellung zugestellt - " + brand
	SubjectNewRegistration   = "🎉 Neue Registrierung - ApeBrain.cloud"
	SubjectPasswordReset     = "Password Reset - ApeBrain.cloud"
)

var templates = template.Must(template.New("notify").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("€%.2f", v) },
	"short": func(id string) string {
		if len(id) > 12 {
			return id[:12] + "..."
		}
		return id
	},
}).Parse(`
{{define "items"}}{{range .}}- {{.Name}} x{{.Quantity}} - {{money .LineTotal}}<br>{{end}}{{end}}

{{define "operator_order"}}<html><body style="font-family: Arial, sans-serif;">
<h2 style="color: #7a9053;">{{.Heading}}</h2>
{{if .Intro}}<p>{{.Intro}}</p>{{end}}
<p><strong>Bestellnummer:</strong> {{.Order.ID}}</p>
<p><strong>Kunde Email:</strong> {{.Order.CustomerEmail}}</p>
<p><strong>Datum:</strong> {{.Date}} UTC</p>
<hr><h3>Bestellte Produkte:</h3>
<p>{{template "items" .Order.Items}}</p>
<hr><p><strong>Gesamtbetrag:</strong> {{money .Order.Total}}</p>
{{if .Order.PaymentID}}<p><strong>PayPal Payment ID:</strong> {{.Order.PaymentID}}</p>{{end}}
{{if .Order.TrackingNumber}}<p><strong>Tracking-Nummer:</strong> {{.Order.TrackingNumber}}</p>{{end}}
<p><strong>Status:</strong> {{.Order.Status}}</p>
</body></html>{{end}}

{{define "customer_order"}}<html><body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<div style="background: #7a9053; color: white; padding: 2rem; text-align: center;"><h1 style="margin: 0;">apebrain.cloud</h1></div>
<div style="padding: 2rem;">
<h2 style="color: #3a4520;">{{.Heading}}</h2>
<p>{{.Intro}}</p>
<hr style="border: 1px solid #e8ebe0; margin: 1.5rem 0;">
<p><strong>Bestellnummer:</strong> {{short .Order.ID}}</p>
<p><strong>Datum:</strong> {{.Date}}</p>
<h3 style="color: #3a4520;">Bestellte Produkte:</h3>
<p style="margin-left: 1rem;">{{template "items" .Order.Items}}</p>
<hr style="border: 1px solid #e8ebe0; margin: 1.5rem 0;">
<p><strong>Gesamtbetrag:</strong> {{money .Order.Total}}</p>
{{if and .Order.TrackingURL .Order.TrackingNumber}}<div style="margin-top: 1.5rem; padding: 1rem; background: #f3f4f6; border-radius: 8px;">
<h3 style="color: #7a9053; margin-top: 0;">Sendungsverfolgung</h3>
<p><strong>Tracking-Nummer:</strong> {{.Order.TrackingNumber}}</p>
<p><strong>Versanddienstleister:</strong> {{.Order.ShippingCarrier}}</p>
<p><a href="{{.Order.TrackingURL}}" style="color: #7a9053; text-decoration: underline;">Sendung verfolgen →</a></p>
</div>{{end}}
<div style="margin-top: 2rem; padding-top: 1.5rem; border-top: 1px solid #e8ebe0; color: #7a9053; font-size: 0.9rem;">
<p>Vielen Dank für Ihren Einkauf!</p>
</div></div>
</body></html>{{end}}

{{define "registration"}}<html><body style="font-family: Arial, sans-serif; background-color: #f8f9fa; padding: 20px;">
<div style="max-width: 600px; margin: 0 auto; background-color: white; border-radius: 10px; padding: 30px;">
<h2 style="color: #7a9053;">🍄 Neue Mitgliederregistrierung</h2>
<p>Ein neuer Kunde hat sich registriert{{if eq .User.AuthProvider "google"}} (Google){{end}}!</p>
<p><strong>Email:</strong> {{.User.Email}}</p>
<p><strong>Name:</strong> {{.User.FirstName}} {{.User.LastName}}</p>
<p><strong>Registriert am:</strong> {{.Date}} UTC</p>
</div></body></html>{{end}}

{{define "password_reset"}}<html><body style="font-family: Arial, sans-serif; background-color: #f8f9fa; padding: 20px;">
<div style="max-width: 600px; margin: 0 auto; background-color: white; border-radius: 10px; padding: 30px;">
<h2 style="color: #7a9053;">🍄 Password Reset Request</h2>
<p>You requested to reset your password for your ApeBrain.cloud account.</p>
<p>Click the button below to reset your password (link expires in 1 hour):</p>
<a href="{{.Link}}" style="display: inline-block; background-color: #7a9053; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 20px 0;">Reset Password</a>
<p style="color: #6b7280; font-size: 0.9rem;">If you didn't request this, please ignore this email.</p>
</div></body></html>{{end}}
`))

// Composer builds the shop's e-mails. Operator messages go to Operator; an
// empty Operator yields messages the dispatcher skips.
type Composer struct {
	Operator string
	Now      func() time.Time
}

// NewComposer returns a Composer addressing operator mail to operator.
func NewComposer(operator string) *Composer {
	return &Composer{Operator: operator, Now: time.Now}
}

type orderView struct {
	Heading string
	Intro   template.HTML
	Order   models.Order
	Date    string
}

func render(name string, data interface{}) string {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		utils.LogError("Failed to render %s email: %v", name, err)
		return ""
	}
	return buf.String()
}

func (c *Composer) now() time.Time {
	if c.Now == nil {
		return time.Now().UTC()
	}
	return c.Now().UTC()
}

// NewPaidOrder is the operator's "new paid order" message.
func (c *Composer) NewPaidOrder(order models.Order) Message {
	return Message{
		To:      c.Operator,
		Subject: SubjectNewOrder,
		HTMLBody: render("operator_order", orderView{
			Heading: "Neue Bestellung eingegangen!",
			Order:   order,
			Date:    c.now().Format("02.01.2006 15:04:05"),
		}),
	}
}

// DeliveryCompleted is the operator's "delivery completed" message.
func (c *Composer) DeliveryCompleted(order models.Order) Message {
	return Message{
		To:      c.Operator,
		Subject: SubjectDeliveryCompleted,
		HTMLBody: render("operator_order", orderView{
			Heading: "Bestellung erfolgreich zugestellt! ✅",
			Intro:   "Die folgende Bestellung wurde erfolgreich an den Kunden zugestellt:",
			Order:   order,
			Date:    c.now().Format("02.01.2006 15:04:05"),
		}),
	}
}

// CustomerStatus is the customer's message for the order's current status.
func (c *Composer) CustomerStatus(order models.Order) Message {
	subject := SubjectStatusUpdate
	intro := template.HTML("Status Ihrer Bestellung: " + template.HTMLEscapeString(order.Status))
	switch order.Status {
	case models.OrderStatusPaid:
		subject = SubjectPaymentConfirmed
		intro = "Ihre Bestellung wurde erfolgreich bezahlt und wird bearbeitet."
	case models.OrderStatusShipped:
		subject = SubjectShipped
		intro = "Ihre Bestellung ist unterwegs!"
	case models.OrderStatusDelivered:
		subject = SubjectDelivered
		intro = "Ihre Bestellung wurde erfolgreich zugestellt. Wir hoffen, Sie genießen Ihre Produkte!"
	}
	heading, _, _ := strings.Cut(subject, " - ")
	return Message{
		To:      order.CustomerEmail,
		Subject: subject,
		HTMLBody: render("customer_order", orderView{
			Heading: heading,
			Intro:   intro,
			Order:   order,
			Date:    c.now().Format("02.01.2006"),
		}),
	}
}

// NewRegistration tells the operator about a new customer account.
func (c *Composer) NewRegistration(user models.User) Message {
	return Message{
		To:      c.Operator,
		Subject: SubjectNewRegistration,
		HTMLBody: render("registration", struct {
			User models.User
			Date string
		}{user, c.now().Format("02.01.2006 15:04")}),
	}
}

// PasswordReset sends the reset link to the account owner.
func (c *Composer) PasswordReset(email, link string) Message {
	return Message{
		To:       email,
		Subject:  SubjectPasswordReset,
		HTMLBody: render("password_reset", struct{ Link string }{link}),
	}
}
