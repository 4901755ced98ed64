package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Do(t *testing.T) {
	t.Run("ReturnsBodyAndHeaders", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
			assert.Equal(t, "HttpFS-Client/1.0", r.Header.Get("User-Agent"))
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, "payload", string(body))
			w.Header().Set("X-Test", "yes")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte("done"))
		}))
		defer srv.Close()

		client := NewClient(nil)
		resp, err := client.Do(context.Background(), &Request{
			Method:  http.MethodPut,
			URL:     srv.URL + "/a",
			Headers: map[string]string{"Content-Type": "application/octet-stream"},
			Body:    []byte("payload"),
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.True(t, resp.IsSuccess())
		assert.Equal(t, "yes", resp.Headers.Get("X-Test"))
		assert.Equal(t, "done", string(resp.Body))
	})

	t.Run("ErrorStatusIsNotAnError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		}))
		defer srv.Close()

		resp, err := NewClient(nil).Do(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var httpErr *HTTPError
		require.ErrorAs(t, resp.Err(), &httpErr)
		assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
		assert.Equal(t, "HTTP 500: boom", httpErr.Error())
	})

	t.Run("DoesNotFollowPutRedirects", func(t *testing.T) {
		hits := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			if r.URL.Path == "/target" {
				w.WriteHeader(http.StatusCreated)
				return
			}
			w.Header().Set("Location", "/target")
			w.WriteHeader(http.StatusTemporaryRedirect)
		}))
		defer srv.Close()

		resp, err := NewClient(nil).Do(context.Background(), &Request{
			Method: http.MethodPut,
			URL:    srv.URL + "/start",
			Body:   []byte("x"),
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
		assert.Equal(t, 1, hits)

		loc, ok := resp.Location()
		assert.True(t, ok)
		assert.Equal(t, "/target", loc)
	})

	t.Run("FollowsGetRedirects", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/datanode" {
				_, _ = w.Write([]byte("file content"))
				return
			}
			http.Redirect(w, r, "/datanode", http.StatusTemporaryRedirect)
		}))
		defer srv.Close()

		resp, err := NewClient(nil).Do(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL + "/file"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "file content", string(resp.Body))
	})

	t.Run("TransportFailure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		_, err := NewClient(nil).Do(context.Background(), &Request{Method: http.MethodGet, URL: url})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http request")
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewClient(&ClientConfig{RateLimit: 1, RateBurst: 1}).Do(ctx, &Request{Method: http.MethodGet, URL: "http://127.0.0.1:1"})
		require.Error(t, err)
	})
}

func TestResponse_Location(t *testing.T) {
	resp := &Response{StatusCode: http.StatusTemporaryRedirect, Headers: http.Header{}}
	_, ok := resp.Location()
	assert.False(t, ok)

	resp.Headers.Set("Location", "http://datanode:14000/a")
	loc, ok := resp.Location()
	assert.True(t, ok)
	assert.Equal(t, "http://datanode:14000/a", loc)
	assert.False(t, resp.IsSuccess())
	assert.NoError(t, resp.Err())
}

func TestClient_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	t.Run("DisabledByDefault", func(t *testing.T) {
		client := NewClient(nil)
		assert.Nil(t, client.rateLimiter)

		start := time.Now()
		for i := 0; i < 20; i++ {
			_, err := client.Do(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})
			require.NoError(t, err)
		}
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("OptIn", func(t *testing.T) {
		client := NewClient(&ClientConfig{RateLimit: 20, RateBurst: 1})
		require.NotNil(t, client.rateLimiter)

		start := time.Now()
		for i := 0; i < 3; i++ {
			_, err := client.Do(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})
			require.NoError(t, err)
		}
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})
}
