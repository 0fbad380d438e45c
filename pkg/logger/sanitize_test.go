package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizedEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{name: "standard", email: "user@example.com", want: "u***@*******.com"},
		{name: "single char user", email: "a@b.io", want: "a@*.io"},
		{name: "invalid", email: "not-an-email", want: "[invalid-email]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizedEmail(tt.email))
		})
	}
}

func TestRedactQuery(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		want     string
	}{
		{name: "empty", rawQuery: "", want: ""},
		{name: "nothing sensitive", rawQuery: "limit=10&offset=20", want: "limit=10&offset=20"},
		{name: "special token", rawQuery: "token=deadbeef", want: "token=%5BREDACTED%5D"},
		{name: "mixed", rawQuery: "token=deadbeef&status=pending", want: "status=pending&token=%5BREDACTED%5D"},
		{name: "case insensitive key", rawQuery: "Token=deadbeef", want: "Token=%5BREDACTED%5D"},
		{name: "malformed", rawQuery: "token=%zz", want: "[REDACTED]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RedactQuery(tt.rawQuery)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "deadbeef")
		})
	}
}
