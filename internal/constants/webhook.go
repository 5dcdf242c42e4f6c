package constants

// Multipart fields accepted by the webhook proxy
const (
	WebhookFieldURL           = "webhookUrl"
	WebhookFieldMessage       = "message"
	WebhookFieldAgentID       = "agentId"
	WebhookFieldSessionID     = "sessionId"
	WebhookFieldUserEmail     = "userEmail"
	WebhookFieldVideoAnalysis = "videoAnalysis"
	WebhookFieldAudio         = "audio"
	WebhookFilePrefix         = "file_"
)

const (
	DefaultWebhookResponseHeaderTimeoutSeconds = 60
	DefaultWebhookStreamTimeoutSeconds         = 600

	// Upstream error bodies and local multipart forms are capped
	WebhookErrorBodyLimit   = 1 << 20
	WebhookMultipartMemory  = 32 << 20
	WebhookRelayBufferBytes = 32 * 1024
)

const (
	DefaultSessionTTLHours            = 24 * 30
	DefaultLinkPreviewCacheTTLMinutes = 60
	LinkPreviewTimeoutSeconds         = 5
	LinkPreviewUserAgent              = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	LinkPreviewNonHTMLDescription     = "Link to a non-HTML resource."

	AnonymousSessionMarker = "anon"
	ClientIDHeader         = "X-Client-ID"
)
