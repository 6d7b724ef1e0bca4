package widget

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFetchDecodesJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"load":42.6}`))
	}))
	defer ts.Close()

	f := NewFetcher(ts.URL, "", 2*time.Second)
	data := f.Fetch(context.Background(), ts.URL+"/cpu")
	assert.Equal(t, map[string]interface{}{"load": 42.6}, data)
}

func TestFetchResolvesRelativeURLsAndSendsToken(t *testing.T) {
	var gotPath, gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	f := NewFetcher(ts.URL, "token-123", 2*time.Second)
	data := f.Fetch(context.Background(), "/api/widgets/system/cpu")

	assert.NotNil(t, data)
	assert.Equal(t, "/api/widgets/system/cpu", gotPath)
	assert.Equal(t, "Bearer token-123", gotAuth)
}

func TestFetchDegradesToNil(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/500":
			w.WriteHeader(http.StatusInternalServerError)
		case "/notjson":
			_, _ = w.Write([]byte("<html>nope</html>"))
		}
	}))
	defer ts.Close()

	f := NewFetcher(ts.URL, "", 2*time.Second)

	assert.Nil(t, f.Fetch(context.Background(), ""))
	assert.Nil(t, f.Fetch(context.Background(), "   "))
	assert.Nil(t, f.Fetch(context.Background(), ts.URL+"/500"))
	assert.Nil(t, f.Fetch(context.Background(), ts.URL+"/notjson"))
	assert.Nil(t, f.Fetch(context.Background(), "http://127.0.0.1:1/unreachable"))
}

func TestCheckReportsReachability(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer ts.Close()

	f := NewFetcher(ts.URL, "", 2*time.Second)

	assert.True(t, f.Check(context.Background(), ts.URL+"/up"))
	assert.False(t, f.Check(context.Background(), ts.URL+"/down"))
	assert.False(t, f.Check(context.Background(), "http://127.0.0.1:1/unreachable"))
	assert.False(t, f.Check(context.Background(), ""))
}
