package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bcit-connector/config"
	"github.com/oksasatya/bcit-connector/pkg/helpers"
	"github.com/oksasatya/bcit-connector/pkg/mailer"
	mailtpl "github.com/oksasatya/bcit-connector/pkg/mailer/templates"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct {
	err  error
	sent []sent
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{to, subject, text, html})
	return nil
}

func body(t *testing.T, job mailer.EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestHandleWelcome(t *testing.T) {
	s := &fakeSender{}
	data := mailtpl.NewWelcomeData(&config.Config{CompanyName: "BCIT Connector"}, "Ada", "ada@example.com")
	out := handle(context.Background(), s, helpers.NewNopLogger(), body(t, mailer.EmailJob{To: "ada@example.com", Template: mailtpl.Welcome, Data: data}))

	assert.Equal(t, ack, out)
	require.Len(t, s.sent, 1)
	assert.Equal(t, "ada@example.com", s.sent[0].to)
	assert.Contains(t, s.sent[0].subject, "Ada")
	assert.NotEmpty(t, s.sent[0].html)
}

func TestHandleRawEmail(t *testing.T) {
	s := &fakeSender{}
	out := handle(context.Background(), s, helpers.NewNopLogger(), body(t, mailer.EmailJob{To: "ada@example.com", Subject: "Hi", Text: "hello"}))
	assert.Equal(t, ack, out)
	require.Len(t, s.sent, 1)
	assert.Equal(t, "Hi", s.sent[0].subject)
}

func TestHandleDropsBadJobs(t *testing.T) {
	s := &fakeSender{}
	log := helpers.NewNopLogger()
	assert.Equal(t, drop, handle(context.Background(), s, log, []byte("{not json")))
	assert.Equal(t, drop, handle(context.Background(), s, log, body(t, mailer.EmailJob{Subject: "x", Text: "y"})))
	assert.Equal(t, drop, handle(context.Background(), s, log, body(t, mailer.EmailJob{To: "a@b.c", Template: "missing"})))
	assert.Equal(t, drop, handle(context.Background(), s, log, body(t, mailer.EmailJob{To: "a@b.c"})))
	assert.Empty(t, s.sent)
}

func TestHandleRequeuesOnSendFailure(t *testing.T) {
	s := &fakeSender{err: errors.New("mailgun down")}
	out := handle(context.Background(), s, helpers.NewNopLogger(), body(t, mailer.EmailJob{To: "ada@example.com", Subject: "Hi", Text: "hello"}))
	assert.Equal(t, requeue, out)
	assert.Equal(t, "requeue", out.String())
}
