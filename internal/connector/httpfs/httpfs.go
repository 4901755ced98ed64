package httpfs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	connhttp "github.com/nucleus/httpfs/internal/connector/http"
	"github.com/nucleus/httpfs/internal/logger"
)

// Client executes gateway operations. It holds no mutable state and is safe
// for concurrent use.
type Client struct {
	config  Config
	http    *connhttp.Client
	metrics Metrics
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient sets the transport client. The default is
// connhttp.NewClient(nil).
func WithHTTPClient(hc *connhttp.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMetrics sets the metrics sink. nil keeps the no-op implementation.
func WithMetrics(m Metrics) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// New creates a gateway client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.RootURL == "" {
		return nil, fmt.Errorf("root URL is required")
	}
	if cfg.MaxRedirects < 0 {
		return nil, fmt.Errorf("max redirects must be >= 0, got %d", cfg.MaxRedirects)
	}

	c := &Client{
		config:  cfg,
		metrics: noopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = connhttp.NewClient(nil)
	}
	return c, nil
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.config
}

// =============================================================================
// OPERATIONS
// =============================================================================

// ListDirectory lists a directory.
func (c *Client) ListDirectory(ctx context.Context, path string) (*Listing, error) {
	resp, err := c.execute(ctx, OperationRequest{Op: OpListStatus, Path: path}, subjectDirectory)
	if err != nil {
		return nil, err
	}
	return resp.(*Listing), nil
}

// OpenFile reads a file's content.
func (c *Client) OpenFile(ctx context.Context, path string) (RawBytes, error) {
	resp, err := c.execute(ctx, OperationRequest{Op: OpOpen, Path: path}, subjectFile)
	if err != nil {
		return nil, err
	}
	return resp.(RawBytes), nil
}

// DeleteDirectory deletes a directory, and its children when recursive.
func (c *Client) DeleteDirectory(ctx context.Context, path string, recursive bool) (*Acknowledged, error) {
	resp, err := c.execute(ctx, OperationRequest{Op: OpDelete, Path: path, Recursive: recursive}, subjectDirectory)
	if err != nil {
		return nil, err
	}
	return resp.(*Acknowledged), nil
}

// DeleteFile deletes a single file.
func (c *Client) DeleteFile(ctx context.Context, path string) (*Acknowledged, error) {
	resp, err := c.execute(ctx, OperationRequest{Op: OpDelete, Path: path}, subjectFile)
	if err != nil {
		return nil, err
	}
	return resp.(*Acknowledged), nil
}

// CreateDirectory creates a directory and any missing parents. permission
// is an octal mode such as "755"; empty leaves it to the gateway.
func (c *Client) CreateDirectory(ctx context.Context, path, permission string) (*Acknowledged, error) {
	resp, err := c.execute(ctx, OperationRequest{Op: OpMkdirs, Path: path, Permission: permission}, subjectDirectory)
	if err != nil {
		return nil, err
	}
	return resp.(*Acknowledged), nil
}

// CreateFile writes content to path using the redirect-follow protocol.
func (c *Client) CreateFile(ctx context.Context, path string, content []byte, overwrite bool, permission string) (*Created, error) {
	resp, err := c.execute(ctx, OperationRequest{
		Op:         OpCreate,
		Path:       path,
		Payload:    content,
		Overwrite:  overwrite,
		Permission: permission,
	}, subjectFile)
	if err != nil {
		return nil, err
	}
	return resp.(*Created), nil
}

// Execute runs any OperationRequest. DELETE requests are reported with
// directory wording; use DeleteFile for file wording.
func (c *Client) Execute(ctx context.Context, req OperationRequest) (Response, error) {
	subject := subjectDirectory
	if req.Op == OpOpen || req.Op == OpCreate {
		subject = subjectFile
	}
	return c.execute(ctx, req, subject)
}

// =============================================================================
// EXECUTION
// =============================================================================

const (
	subjectDirectory = "Directory"
	subjectFile      = "File"
)

func (c *Client) execute(ctx context.Context, req OperationRequest, subject string) (Response, error) {
	start := time.Now()
	id := uuid.NewString()

	var resp Response
	var err error
	switch req.Op {
	case OpListStatus:
		resp, err = c.list(ctx, id, req)
	case OpOpen:
		resp, err = c.open(ctx, id, req)
	case OpDelete:
		resp, err = c.acknowledge(ctx, id, req, subject, "There was an error deleting the "+strings.ToLower(subject)+".")
	case OpMkdirs:
		resp, err = c.acknowledge(ctx, id, req, subject, "There was an error creating the directory.")
	case OpCreate:
		resp, err = c.create(ctx, id, req)
	default:
		err = newError(KindTransport, fmt.Sprintf("Unsupported operation %q.", req.Op), req.Path)
	}

	c.metrics.ObserveOperation(req.Op, time.Since(start), err)
	if err != nil {
		logger.Debug("httpfs[%s]: %s %s failed: %v", id, req.Op, req.Path, err)
		return nil, err
	}
	return resp, nil
}

func (c *Client) list(ctx context.Context, id string, req OperationRequest) (Response, error) {
	resp, err := c.roundTrip(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if _, _, err := classify(resp, req.Path, subjectDirectory, "There was an error listing the directory."); err != nil {
		return nil, err
	}

	var decoded listStatusResponse
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		return nil, &GatewayError{
			Kind:       KindTransport,
			Message:    "Could not decode directory listing.",
			Path:       req.Path,
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	return &Listing{
		Entries: decoded.FileStatuses.FileStatus,
		Raw:     json.RawMessage(resp.Body),
	}, nil
}

func (c *Client) open(ctx context.Context, id string, req OperationRequest) (Response, error) {
	resp, err := c.roundTrip(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if _, _, err := classify(resp, req.Path, subjectFile, "There was an error opening the file."); err != nil {
		return nil, err
	}

	c.metrics.RecordBytes("read", int64(len(resp.Body)))
	return RawBytes(resp.Body), nil
}

// acknowledge handles DELETE and MKDIRS, whose bodies may carry a
// {"boolean": ...} result. Only an explicit false is a failure; a missing
// or unparseable body is success.
func (c *Client) acknowledge(ctx context.Context, id string, req OperationRequest, subject, failure string) (Response, error) {
	resp, err := c.roundTrip(ctx, id, req)
	if err != nil {
		return nil, err
	}
	obj, parsed, err := classify(resp, req.Path, subject, failure)
	if err != nil {
		return nil, err
	}

	ack := &Acknowledged{Boolean: true}
	if parsed {
		ack.Body = obj
		if value, present := booleanResult(obj); present {
			ack.Boolean = value
			if !value {
				return nil, &GatewayError{
					Kind:       KindRemoteException,
					Message:    subject + " does not exist.",
					Path:       req.Path,
					StatusCode: resp.StatusCode,
				}
			}
		}
	}
	return ack, nil
}

// roundTrip builds and sends a single-shot request.
func (c *Client) roundTrip(ctx context.Context, id string, req OperationRequest) (*connhttp.Response, error) {
	method, url := BuildRequest(c.config, req)
	return c.send(ctx, id, method, url, req.Path, nil, nil)
}

// send issues one HTTP exchange. Failing to get any response is the only
// error it reports.
func (c *Client) send(ctx context.Context, id, method, url, path string, headers map[string]string, body []byte) (*connhttp.Response, error) {
	h := map[string]string{"X-Request-ID": id}
	for k, v := range headers {
		h[k] = v
	}

	logger.Debug("httpfs[%s]: %s %s", id, method, url)
	resp, err := c.http.Do(ctx, &connhttp.Request{
		Method:  method,
		URL:     url,
		Headers: h,
		Body:    body,
	})
	if err != nil {
		return nil, &GatewayError{
			Kind:    KindTransport,
			Message: "Request to the gateway failed.",
			Path:    path,
			Err:     err,
		}
	}
	logger.Debug("httpfs[%s]: HTTP %d (%d bytes)", id, resp.StatusCode, len(resp.Body))
	return resp, nil
}

// classify applies the checks shared by every operation, in order: 404,
// RemoteException envelope, non-2xx status. It returns the parsed body when
// the body is a JSON object.
func classify(resp *connhttp.Response, path, subject, failure string) (map[string]any, bool, error) {
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, &GatewayError{
			Kind:       KindNotFound,
			Message:    subject + " not found.",
			Path:       path,
			StatusCode: resp.StatusCode,
		}
	}

	obj, parsed := parseOptionalJSON(resp.Body)
	if parsed {
		if msg, found := remoteException(obj); found {
			return nil, false, &GatewayError{
				Kind:       KindRemoteException,
				Message:    msg,
				Path:       path,
				StatusCode: resp.StatusCode,
			}
		}
	}

	if !resp.IsSuccess() {
		return nil, false, &GatewayError{
			Kind:       KindTransport,
			Message:    failure,
			Path:       path,
			StatusCode: resp.StatusCode,
			Err:        resp.Err(),
		}
	}

	return obj, parsed, nil
}
