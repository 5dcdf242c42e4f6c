package dtos

import "mime/multipart"

// ProxyRequest is the typed view of the multipart form accepted by the
// webhook proxy.
type ProxyRequest struct {
	WebhookURL    string
	Message       string
	AgentID       string
	SessionID     string
	UserEmail     string
	VideoAnalysis bool
	Files         []ProxyFile
	Audio         *ProxyFile
}

// ProxyFile keeps the part's field name so it is forwarded unchanged
type ProxyFile struct {
	Field  string
	Header *multipart.FileHeader
}

// ProxyError is the bare error shape of the proxy and link preview endpoints
type ProxyError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
