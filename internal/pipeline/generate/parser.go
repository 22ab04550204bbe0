package generate

import (
	"strings"

	"repurposer/internal/domain/contentModel"
)

// ParseOutput turns raw model output into the payload for contentType.
// JSON matching the type's schema wins; anything else is preserved under
// the {content, type} fallback. Parsing never fails the generation.
func ParseOutput(contentType contentModel.ContentType, raw string) contentModel.GeneratedPayload {
	candidate := stripCodeFence(strings.TrimSpace(raw))

	if jsonBody := extractJSONObject(candidate); jsonBody != "" {
		payload, err := contentModel.DecodePayload(contentType, []byte(jsonBody))
		if err == nil {
			return payload
		}
	}
	return contentModel.RawPayload(contentType, raw)
}

// stripCodeFence removes a surrounding ```json ... ``` block when the
// model wraps its answer in markdown.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:] //drop the language tag line
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// extractJSONObject returns the outermost {...} span, tolerating prose
// before or after the object.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
