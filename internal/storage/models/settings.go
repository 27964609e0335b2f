package models

// NotificationSettings configures the outbound push relay. An empty
// EndpointURL means the feature is disabled; dispatches become no-ops.
type NotificationSettings struct {
	EndpointURL string `json:"notify_endpoint_url"`
	Topic       string `json:"notify_topic"`
}

// Enabled reports whether dispatches should attempt a network push.
func (s NotificationSettings) Enabled() bool {
	return s.EndpointURL != ""
}
