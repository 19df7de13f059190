package mailer

import "errors"

var (
	ErrNoRecipient = errors.New("empty recipient")
	ErrNoContent   = errors.New("nothing to send")
)

// EmailJob is one queued message. A job either names a Template with its
// Data, or carries a literal Subject plus Text and/or HTML.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Check reports whether the job can be delivered as queued.
func (j EmailJob) Check() error {
	if j.To == "" {
		return ErrNoRecipient
	}
	if j.Template == "" && (j.Subject == "" || (j.Text == "" && j.HTML == "")) {
		return ErrNoContent
	}
	return nil
}
