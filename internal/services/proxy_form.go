package services

import (
	"agenthub/internal/apis/dtos"
	"agenthub/internal/constants"
	"mime/multipart"
	"sort"
	"strings"
)

func firstValue(form *multipart.Form, key string) string {
	if form == nil {
		return ""
	}
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// ParseProxyForm reads the proxy's multipart fields into a typed request.
// A nil form yields an empty request, which fails validation later.
func ParseProxyForm(form *multipart.Form) *dtos.ProxyRequest {
	req := &dtos.ProxyRequest{
		WebhookURL:    strings.TrimSpace(firstValue(form, constants.WebhookFieldURL)),
		Message:       firstValue(form, constants.WebhookFieldMessage),
		AgentID:       strings.TrimSpace(firstValue(form, constants.WebhookFieldAgentID)),
		SessionID:     firstValue(form, constants.WebhookFieldSessionID),
		UserEmail:     firstValue(form, constants.WebhookFieldUserEmail),
		VideoAnalysis: firstValue(form, constants.WebhookFieldVideoAnalysis) == "true",
	}
	if form == nil {
		return req
	}

	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		if strings.HasPrefix(field, constants.WebhookFilePrefix) {
			fields = append(fields, field)
		}
	}
	// file_2 before file_10
	sort.Slice(fields, func(i, j int) bool {
		if len(fields[i]) != len(fields[j]) {
			return len(fields[i]) < len(fields[j])
		}
		return fields[i] < fields[j]
	})
	for _, field := range fields {
		for _, header := range form.File[field] {
			req.Files = append(req.Files, dtos.ProxyFile{Field: field, Header: header})
		}
	}

	if audio := form.File[constants.WebhookFieldAudio]; len(audio) > 0 {
		req.Audio = &dtos.ProxyFile{Field: constants.WebhookFieldAudio, Header: audio[0]}
	}
	return req
}
