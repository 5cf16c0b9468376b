package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData carries the fields the auth templates interpolate.
type EmailData struct {
	CompanyName string
	SupportURL  string
	ActionURL   string
	ExpiresIn   string
}

var subjects = map[string]string{
	"verify_account": "Verify your account",
	"reset_password": "Reset your password",
}

// Render produces the subject and HTML body for a named template.
// data is typically an EmailData or the decoded map from an EmailJob.
func Render(name string, data any) (subject, html string, err error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
	t, err := htmpl.ParseFS(FS, name+".tmpl")
	if err != nil {
		return "", "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
