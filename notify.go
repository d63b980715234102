package accounts

import (
	"bytes"
	"context"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/django/v3"
	goerrors "github.com/goliatone/go-errors"
)

// Sender delivers a rendered notification to a recipient. Implementations
// wrap whatever mail provider the host uses.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, to, subject, body string) error

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, to, subject, body string) error {
	if f == nil {
		return nil
	}
	return f(ctx, to, subject, body)
}

type noopNotifier struct{}

func (noopNotifier) SendActivation(context.Context, string, RegistrationRequest) error {
	return nil
}

func normalizeNotifier(g NotificationGateway) NotificationGateway {
	if g == nil {
		return noopNotifier{}
	}
	return g
}

// ActivationSubject is the subject line used for activation messages
var ActivationSubject = "Activate your account"

// TemplateNotifier renders the activation email from the embedded django
// template and hands the result to a Sender.
type TemplateNotifier struct {
	engine  *django.Engine
	sender  Sender
	baseURL string
	logger  Logger
}

// NewTemplateNotifier builds a TemplateNotifier. baseURL is the public
// address the activation link points at, e.g. https://polls.example.com.
func NewTemplateNotifier(sender Sender, baseURL string) (*TemplateNotifier, error) {
	templates, err := fs.Sub(templatesFS, "data/templates")
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mount template filesystem")
	}

	engine := django.NewFileSystem(http.FS(templates), ".html")
	if err := engine.Load(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load notification templates")
	}

	return &TemplateNotifier{
		engine:  engine,
		sender:  sender,
		baseURL: baseURL,
		logger:  defLogger{},
	}, nil
}

func (n *TemplateNotifier) WithLogger(logger Logger) *TemplateNotifier {
	if logger != nil {
		n.logger = logger
	}
	return n
}

// SendActivation renders the activation template and delivers it to the
// registrant's email address.
func (n *TemplateNotifier) SendActivation(ctx context.Context, token string, req RegistrationRequest) error {
	var body bytes.Buffer

	err := n.engine.Render(&body, "activation", map[string]any{
		"username": req.Username,
		"link":     n.baseURL + "/auth/activate/" + token,
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render activation template")
	}

	if err := n.sender.Send(ctx, req.Email, ActivationSubject, body.String()); err != nil {
		n.logger.Warn("activation delivery failed for %s: %v", req.Email, err)
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to deliver activation message")
	}

	return nil
}
