package httpfs

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	connhttp "github.com/nucleus/httpfs/internal/connector/http"
)

// ============================================================================
// Test Helper Functions
// ============================================================================

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// fakeGateway is an httptest server that records every request before
// handing it to handler.
type fakeGateway struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeGateway(t *testing.T, handler http.HandlerFunc) *fakeGateway {
	t.Helper()

	g := &fakeGateway{}
	g.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		g.mu.Lock()
		g.requests = append(g.requests, recordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		g.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(g.Close)
	return g
}

func (g *fakeGateway) Requests() []recordedRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]recordedRequest, len(g.requests))
	copy(out, g.requests)
	return out
}

func (g *fakeGateway) RootURL() string {
	return g.URL + "/webhdfs/v1"
}

func newTestClient(t *testing.T, g *fakeGateway, mutate func(*Config), opts ...Option) *Client {
	t.Helper()

	cfg := Config{
		RootURL:      g.RootURL(),
		Username:     "hdfs",
		MaxRedirects: DefaultMaxRedirects,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	opts = append([]Option{WithHTTPClient(connhttp.NewClient(&connhttp.ClientConfig{Timeout: 5 * time.Second}))}, opts...)
	client, err := New(cfg, opts...)
	require.NoError(t, err)
	return client
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if body != "" && body[0] == '{' {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// recordingMetrics is an in-memory Metrics implementation.
type recordingMetrics struct {
	mu        sync.Mutex
	ops       []Op
	errs      []error
	redirects int
	bytes     map[string]int64
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{bytes: make(map[string]int64)}
}

func (m *recordingMetrics) ObserveOperation(op Op, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, op)
	m.errs = append(m.errs, err)
}

func (m *recordingMetrics) RecordRedirect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redirects++
}

func (m *recordingMetrics) RecordBytes(direction string, bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bytes[direction] += bytes
}

const remoteExceptionBody = `{"RemoteException":{"exception":"AccessControlException","javaClassName":"org.apache.hadoop.security.AccessControlException","message":"Permission denied: user=hdfs"}}`

const listingBody = `{"FileStatuses":{"FileStatus":[
{"accessTime":0,"blockSize":0,"group":"supergroup","length":0,"modificationTime":1320173277227,"owner":"webuser","pathSuffix":"bar","permission":"711","replication":0,"type":"DIRECTORY"},
{"accessTime":1320171722771,"blockSize":33554432,"group":"supergroup","length":24930,"modificationTime":1320171722771,"owner":"webuser","pathSuffix":"a.patch","permission":"644","replication":1,"type":"FILE"}
]}}`
