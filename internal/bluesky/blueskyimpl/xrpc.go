package blueskyimpl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/errors"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/retry"
)

// APIError is an XRPC error response.
type APIError struct {
	Status  int
	Name    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("xrpc %d %s: %s", e.Status, e.Name, e.Message)
}

// IsExpired reports whether err means the access token has to be renewed.
func IsExpired(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Name == "ExpiredToken" || apiErr.Name == "InvalidToken"
}

type xrpcRequest struct {
	method string
	nsid   string
	token  string
	query  url.Values
	body   any
}

// xrpc performs one call with retries. Server errors, throttling and transport
// failures are retried; other client errors are returned at once.
func (b *BlueskyImpl) xrpc(ctx context.Context, req xrpcRequest, out any) error {
	var payload []byte
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request")
		}
		payload = encoded
	}

	endpoint := b.baseURL + "/xrpc/" + req.nsid
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	return retry.Do(ctx, b.logger, req.nsid, func() error {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
		if err != nil {
			return retry.Permanent(err)
		}
		if payload != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		if req.token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+req.token)
		}

		resp, err := b.http.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			apiErr := &APIError{Status: resp.StatusCode}
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
			_ = json.Unmarshal(raw, apiErr)
			if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
				return apiErr
			}
			return retry.Permanent(apiErr)
		}

		dec := json.NewDecoder(resp.Body)
		dec.UseNumber()
		if err := dec.Decode(out); err != nil {
			return retry.Permanent(errors.Wrap(err, "failed to decode "+req.nsid))
		}
		return nil
	}, b.retry)
}
