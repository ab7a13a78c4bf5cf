package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsOutdated(t *testing.T) {
	tests := []struct {
		current, latest string
		want            bool
	}{
		{"v0.1.0", "v0.2.0", true},
		{"v1.0.0", "v1.0.0", false},
		{"1.2.0", "v1.1.9", false},
		{"v1.0.0-rc1", "v1.0.0", true},
	}
	for _, tt := range tests {
		got, err := IsOutdated(tt.current, tt.latest)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.current, tt.latest)
	}

	_, err := IsOutdated("dev", "v1.0.0")
	assert.Error(t, err)
}

func TestLatestRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"v9.9.9"}`))
	}))
	defer srv.Close()

	tag, err := LatestRelease(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "v9.9.9", tag)
}

func TestLatestRelease_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := LatestRelease(context.Background(), srv.URL)
	assert.Error(t, err)
}
