package copycheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultCMSTimeout bounds a single CMS call. The CMS has no contractual
// latency bound.
const defaultCMSTimeout = 15 * time.Second

// CMSClient talks to the headless CMS's REST API (Strapi-style): collection
// endpoints under /api/{collection} with JSON {"data": ...} envelopes and
// bearer-token auth. Records carry both a numeric surrogate id and a stable
// documentId; update and delete address records by documentId, per the
// CMS's versioning convention.
type CMSClient struct {
	BaseURL    string // e.g. "https://cms.example.com"
	Token      string // bearer token; empty = unauthenticated
	HTTPClient *http.Client
	Timeout    time.Duration // per-call timeout (default: 15s)
}

// CMSRecord is one record of a CMS collection with flattened attributes.
type CMSRecord map[string]any

// DocumentID returns the record's stable document identifier, the key used
// for update/delete addressing and connect-style relations.
func (r CMSRecord) DocumentID() string {
	s, _ := r["documentId"].(string)
	return s
}

// ID returns the record's numeric surrogate key. It is not stable across
// CMS draft/publish versions; prefer DocumentID for addressing.
func (r CMSRecord) ID() int {
	f, _ := r["id"].(float64)
	return int(f)
}

// Connect builds a connect-style relation payload addressing related
// records by document identifier.
func Connect(documentIDs ...string) map[string]any {
	ids := make([]string, 0, len(documentIDs))
	ids = append(ids, documentIDs...)
	return map[string]any{"connect": ids}
}

// List fetches records of a collection, optionally filtered
// (e.g. filters[course][documentId][$eq]=...).
func (c *CMSClient) List(ctx context.Context, collection string, filters url.Values) ([]CMSRecord, error) {
	p := "/api/" + collection
	if len(filters) > 0 {
		p += "?" + filters.Encode()
	}
	var out struct {
		Data []CMSRecord `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, p, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Get fetches one record by document identifier.
func (c *CMSClient) Get(ctx context.Context, collection, documentID string) (CMSRecord, error) {
	var out struct {
		Data CMSRecord `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/"+collection+"/"+documentID, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Create inserts a record and returns it with server-assigned id and
// documentId.
func (c *CMSClient) Create(ctx context.Context, collection string, data map[string]any) (CMSRecord, error) {
	var out struct {
		Data CMSRecord `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/"+collection, map[string]any{"data": data}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Update writes fields onto the record addressed by document identifier.
// Concurrent updates are last-write-wins; the CMS does no optimistic
// concurrency check.
func (c *CMSClient) Update(ctx context.Context, collection, documentID string, data map[string]any) (CMSRecord, error) {
	var out struct {
		Data CMSRecord `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/"+collection+"/"+documentID, map[string]any{"data": data}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Delete removes the record addressed by document identifier.
func (c *CMSClient) Delete(ctx context.Context, collection, documentID string) error {
	return c.do(ctx, http.MethodDelete, "/api/"+collection+"/"+documentID, nil, nil)
}

// do performs one CMS call. Every call is attempted exactly once: no
// retries anywhere, failures surface to the caller as-is.
func (c *CMSClient) do(ctx context.Context, method, path string, body any, out any) error {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultCMSTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cms: encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.BaseURL, "/")+path, reqBody)
	if err != nil {
		return fmt.Errorf("cms: build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("cms: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("cms: %s %s: %s", method, path, cmsErrorDetail(resp))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("cms: decode %s %s: %w", method, path, err)
	}
	return nil
}

// cmsErrorDetail extracts the CMS error message from a failed response,
// falling back to the HTTP status.
func cmsErrorDetail(resp *http.Response) string {
	var envelope struct {
		Error struct {
			Status  int    `json:"status"`
			Name    string `json:"name"`
			Message string `json:"message"`
		} `json:"error"`
	}
	const maxErrorBody = 8 * 1024
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Sprintf("%s (%s)", envelope.Error.Message, resp.Status)
	}
	return resp.Status
}
