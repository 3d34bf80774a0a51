package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"jalsetu.io/jalsetu/internal/domain"
)

var decisionTmpl = template.Must(template.New("decision").Parse(`
<p>Namaste {{.Name}},</p>
<p>Your {{.DocLabel}} application <strong>{{.Number}}</strong> has been
<strong>{{.Outcome}}</strong> by the reviewing officer.</p>
{{if .Approved}}<p>You may collect the document from your Gram Panchayat
office, or track further steps from your JalSetu dashboard.</p>
{{else}}<p>You can review the application from your JalSetu dashboard and
resubmit once the waiting period has passed.</p>{{end}}
<p>— JalSetu</p>
`))

var receiptTmpl = template.Must(template.New("receipt").Parse(`
<p>Namaste {{.Name}},</p>
<p>We received your payment of <strong>₹{{printf "%.2f" .Amount}}</strong>
against water rate assessment <strong>{{.AssessmentNo}}</strong>
(reference {{.PaymentRef}}).</p>
<p>— JalSetu</p>
`))

var docLabels = map[string]string{
	domain.DocTypeNOC:          "No-Objection Certificate",
	domain.DocTypeWaterRequest: "Namuna-7 water request",
	domain.DocTypeExemption:    "water source exemption",
}

// RenderDecision renders the decision email for an application document.
func RenderDecision(recipientName string, app *domain.Application) (subject, body string, err error) {
	label := docLabels[app.Type]
	if label == "" {
		label = app.Type
	}

	data := struct {
		Name     string
		DocLabel string
		Number   string
		Outcome  string
		Approved bool
	}{
		Name:     recipientName,
		DocLabel: label,
		Number:   app.Number,
		Outcome:  app.Status(),
		Approved: app.Approved,
	}

	var buf bytes.Buffer
	if err := decisionTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render decision template: %w", err)
	}
	subject = fmt.Sprintf("Application %s: %s", app.Number, app.Status())
	return subject, buf.String(), nil
}

// RenderReceipt renders the payment receipt email.
func RenderReceipt(recipientName string, payment *domain.Payment) (subject, body string, err error) {
	data := struct {
		Name         string
		Amount       float64
		AssessmentNo string
		PaymentRef   string
	}{
		Name:         recipientName,
		Amount:       payment.Amount,
		AssessmentNo: payment.AssessmentNo,
		PaymentRef:   payment.PaymentRef,
	}

	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render receipt template: %w", err)
	}
	subject = fmt.Sprintf("Payment received for %s", payment.AssessmentNo)
	return subject, buf.String(), nil
}
