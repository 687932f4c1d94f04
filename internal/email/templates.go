package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Built-in templates; keeping them in the binary avoids a deploy-time
// template directory.
var templates = map[string]*template.Template{
	"payment_confirmation": template.Must(template.New("payment_confirmation").Parse(`
<h2>Payment Confirmation - PetNest</h2>
<p>Hi {{.Username}},</p>
<p>Your payment for the listing <strong>{{.PetName}}</strong> was received.</p>
<ul>
  <li>Transaction: {{.TransactionID}}</li>
  <li>Amount: {{printf "%.2f" .Amount}} USD</li>
  <li>Date: {{.Date}}</li>
</ul>
<p>Your listing is now live.</p>
`)),
	"password_reset": template.Must(template.New("password_reset").Parse(`
<h2>Password Reset - PetNest</h2>
<p>Hi {{.Username}},</p>
<p>Use the token below to reset your password. It expires in one hour.</p>
<p><code>{{.Token}}</code></p>
<p>If you did not request this, you can ignore this email.</p>
`)),
}

// Render fills the named template with data.
func Render(name string, data interface{}) (string, error) {
	tpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template: %s", name)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}
