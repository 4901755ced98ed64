package httpfs

import (
	"context"
	"net/http"
	"net/url"

	connhttp "github.com/nucleus/httpfs/internal/connector/http"
	"github.com/nucleus/httpfs/internal/logger"
)

// redirectState lives for one CreateFile call.
type redirectState struct {
	count    int
	location string // empty until the first redirect
}

var octetStream = map[string]string{"Content-Type": "application/octet-stream"}

// create drives the write protocol: PUT to the built URL, and while the
// gateway answers 307 with a Location, PUT the same payload there. The
// redirect count is incremented before it is compared with MaxRedirects.
func (c *Client) create(ctx context.Context, id string, req OperationRequest) (Response, error) {
	var state redirectState

	for {
		target := state.location
		if target == "" {
			_, target = BuildRequest(c.config, req)
		}

		if c.config.Debug {
			logger.Info("httpfs: creating file at %s PUT: %s", req.Path, target)
		}

		resp, err := c.send(ctx, id, http.MethodPut, target, req.Path, octetStream, req.Payload)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusTemporaryRedirect {
			next, err := c.nextLocation(&state, resp, target, req.Path)
			if err != nil {
				return nil, err
			}
			state.location = next
			continue
		}

		if _, _, err := classify(resp, req.Path, subjectFile, "There was an error creating the file."); err != nil {
			return nil, err
		}

		c.metrics.RecordBytes("write", int64(len(req.Payload)))
		return &Created{URL: target, Redirects: state.count}, nil
	}
}

// nextLocation accounts for one 307 response and returns where to send the
// payload next.
func (c *Client) nextLocation(state *redirectState, resp *connhttp.Response, current, path string) (string, error) {
	state.count++
	if state.count > c.config.MaxRedirects {
		return "", &GatewayError{
			Kind:       KindTooManyRedirects,
			Message:    "Too many redirects.",
			Path:       path,
			StatusCode: resp.StatusCode,
		}
	}

	location, ok := resp.Location()
	if !ok {
		return "", &GatewayError{
			Kind:       KindMissingRedirectTarget,
			Message:    "There is no location to redirect to.",
			Path:       path,
			StatusCode: resp.StatusCode,
		}
	}

	next, err := resolveLocation(current, location)
	if err != nil {
		return "", &GatewayError{
			Kind:       KindMissingRedirectTarget,
			Message:    "The redirect location is not a valid URL.",
			Path:       path,
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	if c.config.Debug {
		logger.Info("httpfs: redirecting to %s", next)
	}
	c.metrics.RecordRedirect()
	return next, nil
}

// resolveLocation returns location unchanged when it is absolute, and
// resolved against current otherwise.
func resolveLocation(current, location string) (string, error) {
	loc, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	if loc.IsAbs() {
		return location, nil
	}
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(loc).String(), nil
}
