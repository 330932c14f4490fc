// Package notion is a stateless request builder/executor for the Notion API:
// token exchange, database query, page creation and the search endpoint used
// at configuration time.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/user/notionclip/internal/capture"
	"github.com/user/notionclip/internal/config"
)

const (
	defaultAPIBase  = "https://api.notion.com/v1/"
	defaultTokenURL = "https://www.notion.so/api/v3/getBotToken"
	defaultVersion  = "2022-06-28"
)

type Client struct {
	httpClient *http.Client
	apiBase    string
	tokenURL   string
	version    string
	token      string
}

func NewClient(cfg config.NotionConfig) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiBase:    cfg.APIBase,
		tokenURL:   cfg.TokenURL,
		version:    cfg.Version,
	}
	if c.apiBase == "" {
		c.apiBase = defaultAPIBase
	}
	if c.tokenURL == "" {
		c.tokenURL = defaultTokenURL
	}
	if c.version == "" {
		c.version = defaultVersion
	}
	return c
}

// SetToken installs the bearer token used for all API calls. The session
// manager is the only writer.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) authHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Authorization", "Bearer "+c.token)
}

// RequestToken exchanges the stored integration ID for a short-lived token.
// The endpoint authenticates via the browser session cookie, not a bearer.
func (c *Client) RequestToken(ctx context.Context, botID string) (*TokenResponse, error) {
	body, err := json.Marshal(map[string]string{"botId": botID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, */*")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &tr, nil
}

// RetrievePage fetches a single row. Diagnostic path.
func (c *Client) RetrievePage(ctx context.Context, pageID string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"pages/"+pageID, nil)
	if err != nil {
		return nil, err
	}
	c.authHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp.StatusCode, body)
	}
	return json.RawMessage(body), nil
}

// QueryDatabase runs an exact-match URL filter against the database and
// parses the matching rows. No matches is a normal empty result, not an
// error.
func (c *Client) QueryDatabase(ctx context.Context, databaseID, url string) ([]Entry, error) {
	payload := map[string]interface{}{
		"filter": map[string]interface{}{
			"property": "URL",
			"url":      map[string]string{"equals": url},
		},
	}

	var qr queryResponse
	if err := c.post(ctx, "databases/"+databaseID+"/query", payload, &qr); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(qr.Results))
	for _, row := range qr.Results {
		entries = append(entries, entryFromRow(row))
	}
	return entries, nil
}

// CreatePage inserts exactly one row for the capture. Creation is gated by
// the duplicate lookup in the sync pipeline; callers that skip the pipeline
// must resolve duplicates themselves or risk a second row.
func (c *Client) CreatePage(ctx context.Context, databaseID string, pc capture.PageCapture) (*Entry, error) {
	payload := map[string]interface{}{
		"parent": map[string]string{
			"type":        "database_id",
			"database_id": databaseID,
		},
		"properties": buildProperties(pc),
	}

	var row rowObject
	if err := c.post(ctx, "pages", payload, &row); err != nil {
		return nil, err
	}

	entry := entryFromRow(row)
	if entry.URL == "" {
		entry.URL = pc.URL
	}
	return &entry, nil
}

// SearchDatabases lists databases the integration can reach. Used when
// picking the target database, not on the sync path.
func (c *Client) SearchDatabases(ctx context.Context) ([]Database, error) {
	payload := map[string]interface{}{
		"filter": map[string]string{
			"value":    "database",
			"property": "object",
		},
	}

	var sr searchResponse
	if err := c.post(ctx, "search", payload, &sr); err != nil {
		return nil, err
	}

	dbs := make([]Database, 0, len(sr.Results))
	for _, r := range sr.Results {
		db := Database{ID: r.ID}
		if len(r.Title) > 0 {
			db.Title = r.Title[0].Text.Content
			if db.Title == "" {
				db.Title = r.Title[0].PlainText
			}
		}
		dbs = append(dbs, db)
	}
	return dbs, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.authHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, respBody)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
