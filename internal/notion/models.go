package notion

import (
	"encoding/json"
	"fmt"
)

// Entry is the canonical shape of one database row, as returned by both the
// duplicate lookup and the creation path.
type Entry struct {
	PageID      string `json:"page_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Database identifies one database reachable through the search endpoint.
type Database struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// APIError carries the status/code/message triple of a non-success API
// response so callers can render it verbatim.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion api error: %d %s: %s", e.Status, e.Code, e.Message)
}

type richText struct {
	Type string `json:"type,omitempty"`
	Text struct {
		Content string      `json:"content"`
		Link    interface{} `json:"link,omitempty"`
	} `json:"text"`
	PlainText string `json:"plain_text,omitempty"`
}

// rowObject mirrors the API's representation of one database row, limited to
// the properties this tool reads back.
type rowObject struct {
	ID         string `json:"id"`
	Properties struct {
		Title struct {
			Title []richText `json:"title"`
		} `json:"Title"`
		Description struct {
			RichText []richText `json:"rich_text"`
		} `json:"Description"`
		URL struct {
			URL string `json:"url"`
		} `json:"URL"`
	} `json:"properties"`
}

func entryFromRow(row rowObject) Entry {
	e := Entry{PageID: row.ID, URL: row.Properties.URL.URL}
	if t := row.Properties.Title.Title; len(t) > 0 {
		e.Title = t[0].Text.Content
	}
	if d := row.Properties.Description.RichText; len(d) > 0 {
		e.Description = d[0].Text.Content
	}
	return e
}

type queryResponse struct {
	Results []rowObject `json:"results"`
}

type searchResult struct {
	ID     string     `json:"id"`
	Object string     `json:"object"`
	Title  []richText `json:"title"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

// TokenResponse is the identity endpoint's reply. A missing token together
// with Name == "UnauthorizedError" means the user is not logged in; the
// endpoint signals this in the body, not via the HTTP status.
type TokenResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	// Best effort: the error body may be missing or malformed.
	_ = json.Unmarshal(body, apiErr)
	if apiErr.Status == 0 {
		apiErr.Status = status
	}
	return apiErr
}
