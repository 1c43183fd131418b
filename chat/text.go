package chat

import (
	"bytes"
	"encoding/json"
	"strings"
)

// rawText renders a JSON value as display text: strings are unquoted,
// anything else keeps its compact JSON form.
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// normalizeRole maps anything other than "user" to "assistant".
func normalizeRole(raw json.RawMessage) string {
	if strings.EqualFold(strings.TrimSpace(rawText(raw)), "user") {
		return "user"
	}
	return "assistant"
}

// providerResponses flattens a chat reply to provider key -> text. Both
// {"responses": {...}} and a bare {...} are accepted; anything unparseable
// yields no responses.
func providerResponses(body []byte) map[string]string {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil || top == nil {
		return map[string]string{}
	}
	if nestedRaw, ok := top["responses"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(nestedRaw, &nested); err == nil && nested != nil {
			top = nested
		}
	}

	out := make(map[string]string, len(top))
	for provider, v := range top {
		out[provider] = rawText(v)
	}
	return out
}
