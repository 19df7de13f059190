package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bcit-connector/pkg/helpers"
	"github.com/oksasatya/bcit-connector/pkg/mailer"
	mailtpl "github.com/oksasatya/bcit-connector/pkg/mailer/templates"
)

type outcome int

const (
	ack outcome = iota
	requeue
	drop
)

func (o outcome) String() string {
	switch o {
	case ack:
		return "ack"
	case requeue:
		return "requeue"
	default:
		return "drop"
	}
}

const sendTimeout = 15 * time.Second

// handle renders and sends one queued email. Malformed or unrenderable
// jobs are dropped; delivery failures are requeued.
func handle(ctx context.Context, sender mailer.Sender, logger *logrus.Logger, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		helpers.LogError(logger, "bad email job", err, nil)
		return drop
	}
	if err := job.Check(); err != nil {
		helpers.LogError(logger, "bad email job", err, logrus.Fields{"to": job.To})
		return drop
	}
	helpers.EnsureRecipientAndEmail(&job)

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			helpers.LogError(logger, "render failed", err, logrus.Fields{"template": job.Template})
			return drop
		}
		subject, text, html = s, t, h
	}
	if subject == "" || (text == "" && html == "") {
		helpers.LogError(logger, "bad email job", mailer.ErrNoContent, logrus.Fields{"to": job.To})
		return drop
	}

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := sender.Send(c, job.To, subject, text, html); err != nil {
		helpers.LogError(logger, "send failed", err, logrus.Fields{"to": job.To, "template": job.Template})
		return requeue
	}
	return ack
}
