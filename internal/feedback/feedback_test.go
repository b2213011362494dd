package feedback_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/nexa/internal/feedback"
)

func TestTerminalPresenter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false}, // EOF
		{input: "maybe\n", want: false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			p := feedback.NewTerminalPresenter(strings.NewReader(tt.input), &out)

			ok, err := p.Confirm(context.Background(), feedback.ConfirmLogout())

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Contains(t, out.String(), "[y/N]")
		})
	}
}

func TestTerminalPresenter_Notify(t *testing.T) {
	var out bytes.Buffer
	p := feedback.NewTerminalPresenter(strings.NewReader(""), &out)

	require.NoError(t, p.Notify(context.Background(), feedback.Error("Sign-in failed", "Incorrect username or password")))
	require.NoError(t, p.Notify(context.Background(), feedback.Info("Balance", "<b>12,000</b> credits")))

	assert.Contains(t, out.String(), "✗ Sign-in failed\nIncorrect username or password\n")
	assert.Contains(t, out.String(), "12,000 credits")
	assert.NotContains(t, out.String(), "<b>")
}

func TestTerminalPresenter_ReadLineWithoutTerminal(t *testing.T) {
	var out bytes.Buffer
	p := feedback.NewTerminalPresenter(strings.NewReader("alice\r\nsecret"), &out)

	user, err := p.ReadLine(context.Background(), "Username: ")
	require.NoError(t, err)
	pass, err := p.ReadSecret(context.Background(), "Password: ")
	require.NoError(t, err)

	assert.Equal(t, "alice", user)
	assert.Equal(t, "secret", pass)
	assert.Equal(t, "Username: Password: ", out.String())
}

func TestSanitize(t *testing.T) {
	got := feedback.Sanitize(`<div onclick="x()">Call <a href="javascript:alert(1)">us</a><script>alert(1)</script></div>`)

	assert.NotContains(t, string(got), "script")
	assert.NotContains(t, string(got), "onclick")
	assert.NotContains(t, string(got), "javascript:")
	assert.Contains(t, string(got), "Call")
}

func TestConfirmed(t *testing.T) {
	post := func(v url.Values) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(v.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return r
	}

	assert.True(t, feedback.Confirmed(post(url.Values{feedback.ConfirmField: {feedback.ConfirmValue}})))
	assert.False(t, feedback.Confirmed(post(url.Values{feedback.ConfirmField: {"no"}})))
	assert.False(t, feedback.Confirmed(post(url.Values{})))
	assert.False(t, feedback.Confirmed(httptest.NewRequest(http.MethodGet, "/logout?confirm=yes", nil)))
}

func TestConfirmDeleteAgent(t *testing.T) {
	d := feedback.ConfirmDeleteAgent("42", "Sales")

	assert.Equal(t, feedback.KindConfirm, d.Kind)
	assert.Equal(t, "/agent/42/delete", d.Action)
	assert.Contains(t, d.Text, "Sales")
}
