package accounts_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-accounts"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestTemplateNotifier(t *testing.T) {
	ctx := context.Background()

	t.Run("renders the activation template with the link", func(t *testing.T) {
		var to, subject, body string
		sender := accounts.SenderFunc(func(_ context.Context, gotTo, gotSubject, gotBody string) error {
			to = gotTo
			subject = gotSubject
			body = gotBody
			return nil
		})

		notifier, err := accounts.NewTemplateNotifier(sender, "https://polls.example.com")
		assert.NoError(t, err)

		err = notifier.SendActivation(ctx, "tok-123", registration())
		assert.NoError(t, err)

		assert.Equal(t, "a@x.com", to)
		assert.Equal(t, accounts.ActivationSubject, subject)
		assert.Contains(t, body, "alice")
		assert.Contains(t, body, "https://polls.example.com/auth/activate/tok-123")
	})

	t.Run("wraps sender failures", func(t *testing.T) {
		sender := accounts.SenderFunc(func(context.Context, string, string, string) error {
			return goerrors.New("smtp unavailable", goerrors.CategoryOperation)
		})

		notifier, err := accounts.NewTemplateNotifier(sender, "https://polls.example.com")
		assert.NoError(t, err)

		err = notifier.SendActivation(ctx, "tok-123", registration())
		assert.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "failed to deliver activation message"))
	})
}

func TestSenderFunc(t *testing.T) {
	t.Run("a nil func is a no-op", func(t *testing.T) {
		var sender accounts.SenderFunc
		assert.NoError(t, sender.Send(context.Background(), "a@x.com", "subject", "body"))
	})
}
