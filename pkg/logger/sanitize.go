package logger

import (
	"net/url"
	"strings"
)

// SanitizedEmail masks an email address for logging (e.g., "u***@e***.com")
func SanitizedEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "[invalid-email]"
	}

	username := parts[0]
	domain := parts[1]

	// Mask username: keep first char, mask rest
	if len(username) > 1 {
		username = string(username[0]) + strings.Repeat("*", len(username)-1)
	}

	// Mask all but the TLD
	domainParts := strings.Split(domain, ".")
	if len(domainParts) > 1 {
		for i := 0; i < len(domainParts)-1; i++ {
			domainParts[i] = strings.Repeat("*", len(domainParts[i]))
		}
		domain = strings.Join(domainParts, ".")
	}

	return username + "@" + domain
}

var sensitiveParams = map[string]bool{
	"token":        true,
	"access_token": true,
	"secret":       true,
	"password":     true,
	"api_key":      true,
	"email":        true,
}

// RedactQuery returns rawQuery with the values of sensitive parameters
// replaced. Special-post tokens travel in the query string and must never
// reach the logs. An unparseable query is redacted entirely.
func RedactQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "[REDACTED]"
	}

	redacted := false
	for key := range values {
		if sensitiveParams[strings.ToLower(key)] {
			values[key] = []string{"[REDACTED]"}
			redacted = true
		}
	}
	if !redacted {
		return rawQuery
	}

	return values.Encode()
}
