package backend

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/logger"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
)

var pdfMagic = []byte("%PDF-")

// IsPDF reports whether data starts with the PDF file signature.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// postJSON sends body as JSON and returns the raw success body.
// Non-success statuses become KindBackend errors carrying the service's
// "error" field when present.
func (c *Client) postJSON(ctx context.Context, op, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, NewError(op, KindTransport, fmt.Errorf("encode request: %w", err))
	}

	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, NewError(op, KindTransport, err)
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.request(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewError(op, KindCanceled, ctx.Err())
		}
		return nil, NewError(op, KindTransport, err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return nil, NewError(op, KindTransport, fmt.Errorf("read body: %w", err))
	}

	c.logger.Debug("got response from backend",
		zap.String(logger.FieldOperation, op),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
		zap.String("body", logger.TruncateForLog(string(data), c.MaxLogLength)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			Op:      op,
			Kind:    KindBackend,
			Status:  resp.StatusCode,
			Message: errorMessage(data),
		}
	}

	return data, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()), zap.String("request_id", req.Header.Get("X-Request-ID")))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("X-Request-ID", uuid.NewString())

	return req
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return io.ReadAll(reader)
}

// errorMessage extracts the service's "error" field from a failure body.
func errorMessage(data []byte) string {
	if !gjson.ValidBytes(data) {
		return ""
	}
	msg := gjson.GetBytes(data, "error")
	if msg.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(msg.String())
}
