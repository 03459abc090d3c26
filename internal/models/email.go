package models

// EmailKind тип письма, определяющий шаблон на стороне sender.
type EmailKind string

const (
	EmailWelcome      EmailKind = "welcome"
	EmailResetCode    EmailKind = "reset_code"
	EmailResetSuccess EmailKind = "reset_success"
	EmailNewsletter   EmailKind = "newsletter"
)

// Email сообщение, которое публикуется в очередь и доставляется сервисом sender.
type Email struct {
	Kind    EmailKind `json:"kind"`
	To      string    `json:"to"`
	Name    string    `json:"name,omitempty"`
	Code    string    `json:"code,omitempty"`
	Subject string    `json:"subject,omitempty"`
	Content string    `json:"content,omitempty"`
}
