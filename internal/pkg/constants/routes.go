package constants

// Static route constants
const (
	APIRoute      = "/api"
	AdminRoute    = "/admin"
	WebhooksRoute = "/webhooks"
)
