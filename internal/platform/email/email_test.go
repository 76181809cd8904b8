package email

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hrms/internal/platform/config"
)

func TestNewFallsBackToLogMailer(t *testing.T) {
	m := New(config.Config{EmailEnabled: false}, nil)
	_, ok := m.(logMailer)
	assert.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), "a@x", "b@x", "hi", "body"))
}

func TestBuildMessageHeaders(t *testing.T) {
	msg := string(buildMessage("hr@example.com", "asha@example.com", "Password reset", "token"))
	assert.True(t, strings.HasPrefix(msg, "From: hr@example.com\r\nTo: asha@example.com\r\nSubject: Password reset\r\n"))
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\ntoken"))
}
