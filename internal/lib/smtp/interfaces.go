// Package smtp открывает сессии с почтовым релеем для отправки писем.
package smtp

import (
	"context"
	"io"
	"net/mail"
)

// Client SMTP-сессия, готовая к отправке. *smtp.Client удовлетворяет ему напрямую.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Connector открывает сессии и знает, от чьего имени отправлять.
type Connector interface {
	Connect(ctx context.Context) (Client, error)
	From() mail.Address
}
