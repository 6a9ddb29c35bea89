package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestKarmaAward(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/karma/profile-complete", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":"user","karma":50,"message":"Profile completion karma awarded"}`))
	}))
	defer server.Close()

	t.Setenv("KARMA_SERVICE_URL", server.URL)

	points, err := RequestKarmaAward(KarmaActionProfileComplete)
	require.NoError(t, err)
	assert.Equal(t, 50, points)
}

func TestRequestKarmaAwardServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	t.Setenv("KARMA_SERVICE_URL", server.URL)

	_, err := RequestKarmaAward(KarmaActionSessionCompleted)
	assert.Error(t, err)
}

func TestRequestKarmaAwardUnreachable(t *testing.T) {
	// Closed server simulates the Java service being down.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	t.Setenv("KARMA_SERVICE_URL", url)

	_, err := RequestKarmaAward(KarmaActionProfileComplete)
	assert.Error(t, err)
}

func TestRequestKarmaAwardUnconfigured(t *testing.T) {
	t.Setenv("KARMA_SERVICE_URL", "")

	_, err := RequestKarmaAward(KarmaActionProfileComplete)
	assert.Error(t, err)
}
