// Package notify pushes best-effort notifications to an ntfy-compatible
// endpoint. Every failure mode here is terminal and silent from the caller's
// point of view: the relay logs and returns, it never propagates errors.
package notify

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/keepsake-app/backend/internal/storage/models"
)

// defaultTopic is used when no topic is configured.
const defaultTopic = "keepsake"

// SettingsSource loads the current relay configuration. Settings are read
// fresh on every dispatch so edits take effect immediately.
type SettingsSource interface {
	NotificationSettings(ctx context.Context) (models.NotificationSettings, error)
}

// Relay performs outbound pushes. It owns no persistent state.
type Relay struct {
	settings  SettingsSource
	uploadDir string
	client    *resty.Client
	log       zerolog.Logger
}

// NewRelay creates a relay reading image payloads from uploadDir.
func NewRelay(settings SettingsSource, uploadDir string, timeout time.Duration, log zerolog.Logger) *Relay {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Relay{
		settings:  settings,
		uploadDir: uploadDir,
		client:    resty.New().SetTimeout(timeout),
		log:       log.With().Str("component", "notify").Logger(),
	}
}

// Dispatch pushes the item's image with a kind-specific title. Intended to be
// called from a detached goroutine; it never returns an error. A disabled
// endpoint or a missing image file is the feature-off state, not a failure.
func (r *Relay) Dispatch(ctx context.Context, kind models.Kind, item models.Item) {
	settings, err := r.settings.NotificationSettings(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("loading notification settings failed")
		return
	}
	if !settings.Enabled() {
		return
	}

	payload, err := os.ReadFile(filepath.Join(r.uploadDir, filepath.FromSlash(item.Locator)))
	if err != nil {
		r.log.Debug().Str("locator", item.Locator).Err(err).Msg("image payload unavailable, skipping push")
		return
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Title", kind.DrawTitle()).
		SetHeader("Filename", filepath.Base(item.Locator)).
		SetBody(payload).
		Post(r.publishURL(settings))

	r.observe(resp, err, string(kind))
}

// Announce pushes a plain text notification, used by the cycle reminder.
func (r *Relay) Announce(ctx context.Context, title, message string) {
	settings, err := r.settings.NotificationSettings(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("loading notification settings failed")
		return
	}
	if !settings.Enabled() {
		return
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Title", title).
		SetBody(message).
		Post(r.publishURL(settings))

	r.observe(resp, err, "announce")
}

func (r *Relay) publishURL(s models.NotificationSettings) string {
	topic := s.Topic
	if topic == "" {
		topic = defaultTopic
	}
	return strings.TrimRight(s.EndpointURL, "/") + "/" + topic
}

func (r *Relay) observe(resp *resty.Response, err error, what string) {
	switch {
	case err != nil:
		r.log.Warn().Err(err).Str("dispatch", what).Msg("push failed")
	case resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices:
		r.log.Warn().Int("status", resp.StatusCode()).Str("dispatch", what).Msg("push rejected")
	}
}
