// Package netx holds small HTTP client helpers shared by the CLI.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// FilePart is a file attached to a multipart form.
type FilePart struct {
	Field    string
	Filename string
	Body     io.Reader
}

// Response is the status and body of a finished request.
type Response struct {
	StatusCode int
	Body       []byte
}

// SendMultipart encodes fields and file as multipart/form-data and sends it
// with method to url. A non-empty token is sent as a bearer Authorization
// header. Any HTTP status is returned as is; only transport failures are
// errors.
func SendMultipart(ctx context.Context, c *http.Client, method, url, token string, fields map[string]string, file *FilePart) (*Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if file != nil {
		part, err := mw.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, file.Body); err != nil {
			return nil, fmt.Errorf("read %s: %w", file.Filename, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c == nil {
		c = http.DefaultClient
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
