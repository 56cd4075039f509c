package logger

import (
	"log/slog"
	"strings"
)

// Sensitive value prefixes that should be masked.
var sensitiveValuePrefixes = []string{
	"sk_", // payment provider secret key
	"pk_", // payment provider publishable key
}

// Sensitive key patterns that trigger full redaction.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"api_key",
	"apikey",
	"credential",
	"auth",
	"bearer",
	"sealing",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// tokenLength is the length of a download token in hex characters.
const tokenLength = 64

// redactSensitive checks if an attribute contains sensitive data
// and redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()

		// Value shape takes priority over key-based detection.
		for _, prefix := range sensitiveValuePrefixes {
			if strings.HasPrefix(strVal, prefix) {
				return slog.String(a.Key, maskValue(strVal, prefix))
			}
		}
		if isHexToken(strVal) {
			return slog.String(a.Key, maskToken(strVal))
		}
		if keyLooksLikeEmail(a.Key) && strings.Contains(strVal, "@") {
			return slog.String(a.Key, maskEmail(strVal))
		}

		keyLower := strings.ToLower(a.Key)
		for _, pattern := range sensitiveKeyPatterns {
			if strings.Contains(keyLower, pattern) {
				if strVal != "" {
					return slog.String(a.Key, redactedValue)
				}
				break
			}
		}
	}

	// Handle nested groups recursively.
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// isHexToken reports whether a value looks like a download token:
// exactly 64 lowercase hex characters.
func isHexToken(s string) bool {
	if len(s) != tokenLength {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// maskToken keeps a short hint of a token for log correlation.
// Format: first 6 chars + "..." + last 4 chars.
func maskToken(token string) string {
	return token[:6] + "..." + token[len(token)-4:]
}

// maskValue partially masks a prefixed secret, keeping the prefix and
// short hints.
func maskValue(value, prefix string) string {
	if len(value) <= len(prefix)+6 {
		return prefix + "***"
	}

	body := value[len(prefix):]
	if len(body) > 6 {
		return prefix + body[:3] + "..." + body[len(body)-3:]
	}
	return prefix + "***"
}

// maskEmail keeps the first character and the domain.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return redactedValue
	}
	return email[:1] + "***" + email[at:]
}

func keyLooksLikeEmail(key string) bool {
	return strings.Contains(strings.ToLower(key), "email")
}

// RedactString manually redacts a string value.
// Use this when you need to redact a value before logging.
func RedactString(value string) string {
	for _, prefix := range sensitiveValuePrefixes {
		if strings.HasPrefix(value, prefix) {
			return maskValue(value, prefix)
		}
	}
	if isHexToken(value) {
		return maskToken(value)
	}
	return value
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue checks if a value appears to be sensitive.
func IsSensitiveValue(value string) bool {
	for _, prefix := range sensitiveValuePrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return isHexToken(value)
}
