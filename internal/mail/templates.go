package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const subjectRecoverPassword = "Password recovery"

// RecoverPasswordData fills the password recovery template.
type RecoverPasswordData struct {
	Name    string
	Link    string
	Minutes int
}

// RenderRecoverPassword builds the password recovery message for to.
func RenderRecoverPassword(to string, data RecoverPasswordData) (Message, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, "recover_password.html", data); err != nil {
		return Message{}, fmt.Errorf("error executing template: %w", err)
	}
	return Message{To: to, Subject: subjectRecoverPassword, HTMLBody: body.String()}, nil
}
