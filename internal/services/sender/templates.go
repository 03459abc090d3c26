package sender

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/magabrotheeeer/storefront/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// letter готовое к отправке письмо.
type letter struct {
	subject     string
	contentType string
	body        string
}

type templateData struct {
	Brand string
	Name  string
	Code  string
	To    string
}

func render(email models.Email, brand string) (letter, error) {
	data := templateData{Brand: brand, Name: email.Name, Code: email.Code, To: email.To}

	switch email.Kind {
	case models.EmailWelcome:
		return renderHTML("welcome.html", fmt.Sprintf("Welcome to %s!", brand), data)
	case models.EmailResetCode:
		return renderHTML("reset_code.html", "Reset Your Password", data)
	case models.EmailResetSuccess:
		return renderHTML("reset_success.html", "Your Password Was Successfully Changed!", data)
	case models.EmailNewsletter:
		return letter{
			subject:     email.Subject,
			contentType: "text/plain; charset=\"UTF-8\"",
			body:        email.Content,
		}, nil
	default:
		return letter{}, fmt.Errorf("unknown email kind %q", email.Kind)
	}
}

func renderHTML(name, subject string, data templateData) (letter, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return letter{}, err
	}
	return letter{
		subject:     subject,
		contentType: "text/html; charset=\"UTF-8\"",
		body:        buf.String(),
	}, nil
}
