package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/nexa/internal/config"
)

func TestAPIEndpoint(t *testing.T) {
	tests := []struct {
		name string
		base string
		port string
		want string
	}{
		{name: "default", base: config.DefaultAPIBaseURL, want: "http://localhost:8000"},
		{name: "port override", base: "http://localhost:8000", port: "9000", want: "http://localhost:9000"},
		{name: "no port in base", base: "https://api.example.com", port: "8443", want: "https://api.example.com:8443"},
		{name: "path dropped", base: "https://api.example.com/v1/", want: "https://api.example.com"},
		{name: "ipv6", base: "http://[::1]:8000", port: "8001", want: "http://[::1]:8001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := config.APIEndpoint(tt.base, tt.port)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAPIEndpoint_RejectsRelative(t *testing.T) {
	_, err := config.APIEndpoint("localhost:8000/api", "")
	assert.Error(t, err)

	_, err = config.APIEndpoint("", "")
	assert.Error(t, err)
}

func TestDefaultSessionFile(t *testing.T) {
	path := config.DefaultSessionFile()
	assert.Equal(t, "session.json", filepath.Base(path))
	assert.Equal(t, "nexa", filepath.Base(filepath.Dir(path)))
}
