package mail

import (
	"bytes"
	"html/template"
)

// Transactional bodies are plain standalone HTML; layout chrome belongs to
// the marketing site, not this API.

var quoteConfirmationTmpl = template.Must(template.New("quote_confirmation").Parse(`<html><body>
<h2>Thanks for your quote request, {{.Name}}!</h2>
<p>We received your {{.ServiceLabel}} request (reference #{{.QuoteID}}) and our team
is reviewing it now. You will hear from us shortly with pricing and scheduling.</p>
{{if .TempPassword}}
<p>We created a Catdump account for you so you can track this request:</p>
<ul>
<li>Login email: {{.Email}}</li>
<li>Temporary password: <strong>{{.TempPassword}}</strong></li>
</ul>
<p>Please change this password after your first sign-in.</p>
{{end}}
<p>&mdash; The Catdump Team</p>
</body></html>`))

var adminNewQuoteTmpl = template.Must(template.New("admin_new_quote").Parse(`<html><body>
<h2>New quote request #{{.QuoteID}}</h2>
<p>{{.Name}} ({{.Email}}, {{.Phone}}) submitted a {{.ServiceLabel}} request.</p>
<p>Location: {{.Location}}</p>
<p>Review it in the admin dashboard.</p>
</body></html>`))

// QuoteEmailData feeds both the customer confirmation and the admin alert.
type QuoteEmailData struct {
	QuoteID      int64
	Name         string
	Email        string
	Phone        string
	Location     string
	ServiceLabel string

	// TempPassword is set only when the submission provisioned a new account.
	TempPassword string
}

func RenderQuoteConfirmation(data QuoteEmailData) (string, error) {
	return render(quoteConfirmationTmpl, data)
}

func RenderAdminNewQuote(data QuoteEmailData) (string, error) {
	return render(adminNewQuoteTmpl, data)
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
