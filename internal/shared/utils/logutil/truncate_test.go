package logutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short body kept", `{"status":"ok"}`, 128, `{"status":"ok"}`},
		{"exact length kept", "abcde", 5, "abcde"},
		{"html error page cut", "<html><body>502 Bad Gateway</body></html>", 12, "<html><body>..."},
		{"empty input", "", 10, ""},
		{"zero limit", "anything", 0, "..."},
		{"negative limit", "anything", -3, "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateForLog(tt.input, tt.maxLen))
		})
	}
}

func TestTruncateForLog_LongBody(t *testing.T) {
	got := TruncateForLog(strings.Repeat("x", 500), 128)
	assert.Len(t, got, 131)
	assert.True(t, strings.HasSuffix(got, "..."))
}
