package templates

import (
	"strings"
	"time"

	"github.com/mssola/user_agent"

	"github.com/oksasatya/bcit-connector/config"
)

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option      { return func(d *EmailData) { d.IP = ip } }
func WithAvatar(url string) Option { return func(d *EmailData) { d.AvatarURL = url } }

// WithUserAgent keeps the raw header and a readable "Browser on OS" form.
func WithUserAgent(ua string) Option {
	return func(d *EmailData) {
		d.UserAgent = ua
		d.Device = describeDevice(ua)
	}
}

func describeDevice(ua string) string {
	if strings.TrimSpace(ua) == "" {
		return ""
	}
	parsed := user_agent.New(ua)
	if parsed.Bot() {
		return ""
	}
	browser, _ := parsed.Browser()
	os := parsed.OS()
	switch {
	case browser != "" && os != "":
		return browser + " on " + os
	case browser != "":
		return browser
	default:
		return os
	}
}

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

// NewBaseEmailData fills the common fields from config, then applies opts
func NewBaseEmailData(cfg *config.Config, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           strings.TrimSpace(name),
		Email:          email,
		RecipientEmail: email,
		Type:           typ,
	}
	if cfg != nil {
		d.CompanyName = cfg.CompanyName
		d.CompanyAddress = cfg.CompanyAddress
		d.AppName = cfg.AppName
		d.LogoURL = cfg.LogoURL
		d.SupportURL = cfg.SupportURL
		d.PrivacyURL = cfg.PrivacyURL
		d.UnsubscribeURL = cfg.UnsubscribeURL
		d.DashboardURL = cfg.DashboardURL
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, Welcome, name, email, opts...))
}
