package handler

// APIV1Prefix is the canonical base path for public HTTP API v1.
// Handlers and tests build paths from it.
const APIV1Prefix = "/api/v1"

// Paths Shopify calls directly; they are registered in the app configuration.
const (
	AuthPrefix             = "/auth"
	CallbackPath           = AuthPrefix + "/callback"
	UninstalledWebhookPath = "/webhooks/app/uninstalled"
)
