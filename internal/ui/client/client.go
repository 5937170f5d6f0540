// Package client is a typed HTTP client for the document-QA backend:
// status, document listing, upload and query.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
)

// DocumentInfo is one entry of the document listing.
type DocumentInfo struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Chunks int    `json:"chunks"`
}

// UploadResult is the backend's answer to a successful upload.
type UploadResult struct {
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the backend at baseURL (no trailing slash needed).
// Requests carry no timeout of their own; pass a context to bound them.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// Status returns the backend's reported status string ("connected" when healthy).
func (c *Client) Status(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/status", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode status: %w", err)
	}
	return body.Status, nil
}

// ListDocuments fetches the uploaded documents in upload order.
func (c *Client) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/documents", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFrom(resp)
	}

	var body struct {
		Documents []DocumentInfo `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return body.Documents, nil
}

// mimeByExtension maps the accepted document extensions to the MIME type sent
// on the file part. CreateFormFile would stamp application/octet-stream, which
// the backend's converter does not understand.
var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

// Upload posts a file as multipart form data (field "file") and returns the
// server-assigned filename and chunk count.
func (c *Client) Upload(ctx context.Context, filename string, data io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreatePart(filePartHeader(filename))
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := io.Copy(part, data); err != nil {
		return UploadResult{}, fmt.Errorf("buffer upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return UploadResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return UploadResult{}, c.errorFrom(resp)
	}

	var out UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return UploadResult{}, fmt.Errorf("decode upload response: %w", err)
	}
	return out, nil
}

// filePartHeader builds the MIME header for the uploaded file part, carrying
// the content type matching the file's extension.
func filePartHeader(filename string) textproto.MIMEHeader {
	contentType := mimeByExtension[strings.ToLower(filepath.Ext(filename))]
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)
	return h
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Query posts a question and returns the generated answer.
func (c *Client) Query(ctx context.Context, question string) (string, error) {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/query", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.errorFrom(resp)
	}

	var body struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode answer: %w", err)
	}
	return body.Answer, nil
}

// errorFrom extracts the backend's {"error": ...} body, falling back to a
// generic message when the body is missing or malformed.
func (c *Client) errorFrom(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("%s", body.Error)
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}
