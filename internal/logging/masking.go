// Package logging provides utilities for secure logging with data masking.
package logging

import (
	"encoding/json"
	"fmt"
	"strings"
)

// sensitiveFields lists JSON field names whose values are never logged.
var sensitiveFields = map[string]bool{
	"token":              true,
	"verification_token": true,
	"secret":             true,
	"password":           true,
}

// MaskHeader redacts sensitive header values based on header name.
// Returns the redacted value suitable for logging.
//
// Rules:
// - Password/secret headers: "[REDACTED]" (no partial reveal)
// - Token headers: "****" + last4chars (e.g., "****ab3f")
// - Other headers: returned unchanged
func MaskHeader(name, value string) string {
	lowerName := strings.ToLower(name)

	if strings.Contains(lowerName, "password") ||
		strings.Contains(lowerName, "secret") {
		return "[REDACTED]"
	}

	if lowerName == "authorization" ||
		lowerName == "x-api-key" {
		if len(value) < 4 {
			return "****"
		}
		return "****" + value[len(value)-4:]
	}

	return value
}

// MaskJSONBody redacts sensitive fields in a JSON body.
//
// Field names listed in the package denylist are replaced with
// "[REDACTED]" at any nesting depth. Returns the masked JSON as
// bytes, or the original if parsing fails.
func MaskJSONBody(body []byte) []byte {
	if len(body) == 0 {
		return body
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		// Not JSON - return original
		return body
	}

	masked := maskJSONValue(data)

	result, err := json.Marshal(masked)
	if err != nil {
		return body
	}

	return result
}

// maskJSONValue recursively masks sensitive JSON fields
func maskJSONValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		result := make(map[string]any)
		for key, val := range v {
			if sensitiveFields[strings.ToLower(key)] {
				result[key] = "[REDACTED]"
			} else {
				result[key] = maskJSONValue(val)
			}
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = maskJSONValue(item)
		}
		return result
	default:
		return value
	}
}

// FormatBinaryData formats binary data for logging.
// Returns a human-readable size indicator.
func FormatBinaryData(data []byte) string {
	return fmt.Sprintf("[BINARY: %d bytes]", len(data))
}
