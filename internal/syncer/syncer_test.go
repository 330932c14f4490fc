package syncer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/notionclip/internal/capture"
	"github.com/user/notionclip/internal/notion"
	"github.com/user/notionclip/internal/session"
)

const validBotID = "123456789012345678901234567890123456"

type fakeExchanger struct {
	resp  *notion.TokenResponse
	calls int
}

func (f *fakeExchanger) RequestToken(ctx context.Context, botID string) (*notion.TokenResponse, error) {
	f.calls++
	return f.resp, nil
}

// fakeAPI is an in-memory stand-in for the Notion client. Rows are keyed by
// the exact URL string.
type fakeAPI struct {
	rows map[string]notion.Entry

	token        string
	tokenAtQuery string
	queryCalls   int
	createCalls  int

	queryErr  error
	createErr error

	nextID int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{rows: make(map[string]notion.Entry)}
}

func (f *fakeAPI) SetToken(token string) {
	f.token = token
}

func (f *fakeAPI) QueryDatabase(ctx context.Context, databaseID, url string) ([]notion.Entry, error) {
	f.queryCalls++
	f.tokenAtQuery = f.token
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if entry, ok := f.rows[url]; ok {
		return []notion.Entry{entry}, nil
	}
	return nil, nil
}

func (f *fakeAPI) CreatePage(ctx context.Context, databaseID string, pc capture.PageCapture) (*notion.Entry, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	entry := notion.Entry{
		PageID:      fmt.Sprintf("page-%d", f.nextID),
		Title:       pc.Title,
		Description: pc.Description,
		URL:         pc.URL,
	}
	f.rows[pc.URL] = entry
	return &entry, nil
}

func testEngine(api RemoteAPI, botID, databaseID string) *Engine {
	sessions := session.NewManager(&fakeExchanger{resp: &notion.TokenResponse{Token: "tok"}})
	return NewEngine(sessions, api, botID, databaseID)
}

func testCapture(url string) capture.PageCapture {
	return capture.PageCapture{
		ID:          url,
		Title:       "T",
		URL:         url,
		Description: "D",
		SavedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSync_FreshURLIssuesOneQueryAndOneCreate(t *testing.T) {
	api := newFakeAPI()
	engine := testEngine(api, validBotID, "db-1")

	entry, err := engine.Sync(context.Background(), testCapture("https://ex.com"))
	require.NoError(t, err)

	assert.Equal(t, "https://ex.com", entry.URL)
	assert.Equal(t, "T", entry.Title)
	assert.Equal(t, "D", entry.Description)
	assert.Equal(t, 1, api.queryCalls)
	assert.Equal(t, 1, api.createCalls)
	assert.Equal(t, StateCreated, engine.State())
}

func TestSync_TokenAcquiredBeforeQuery(t *testing.T) {
	api := newFakeAPI()
	engine := testEngine(api, validBotID, "db-1")

	_, err := engine.Sync(context.Background(), testCapture("https://ex.com"))
	require.NoError(t, err)
	assert.Equal(t, "tok", api.tokenAtQuery)
}

func TestSync_IsIdempotentForTheSameURL(t *testing.T) {
	api := newFakeAPI()
	engine := testEngine(api, validBotID, "db-1")

	first, err := engine.Sync(context.Background(), testCapture("https://ex.com"))
	require.NoError(t, err)

	second, err := engine.Sync(context.Background(), testCapture("https://ex.com"))
	require.NoError(t, err)

	assert.Equal(t, first.PageID, second.PageID)
	assert.Equal(t, 1, api.createCalls, "only one row may be created")
	assert.Len(t, api.rows, 1)
	assert.Equal(t, StateFound, engine.State())
}

func TestSync_DuplicateReturnsExistingWithoutCreating(t *testing.T) {
	api := newFakeAPI()
	api.rows["https://ex.com"] = notion.Entry{
		PageID:      "page-existing",
		Title:       "Remote Title",
		Description: "Remote Description",
		URL:         "https://ex.com",
	}
	engine := testEngine(api, validBotID, "db-1")

	entry, err := engine.Sync(context.Background(), testCapture("https://ex.com"))
	require.NoError(t, err)

	assert.Equal(t, "page-existing", entry.PageID)
	assert.Zero(t, api.createCalls)
	assert.Equal(t, StateFound, engine.State())

	select {
	case dup := <-engine.Duplicates():
		assert.Equal(t, "page-existing", dup.PageID)
		assert.Equal(t, "Remote Title", dup.Title)
		assert.Equal(t, "Remote Description", dup.Description)
	default:
		t.Fatal("expected a duplicate-found notification")
	}
}

func TestSync_DedupeIsExact(t *testing.T) {
	api := newFakeAPI()
	api.rows["https://a.com/"] = notion.Entry{PageID: "page-slash", URL: "https://a.com/"}
	engine := testEngine(api, validBotID, "db-1")

	// The trailing-slash variant must not match; a new row is created.
	entry, err := engine.Sync(context.Background(), testCapture("https://a.com"))
	require.NoError(t, err)

	assert.NotEqual(t, "page-slash", entry.PageID)
	assert.Equal(t, 1, api.createCalls)
	assert.Len(t, api.rows, 2)
}

func TestSync_MissingCredentialFailsBeforeAnyRemoteCall(t *testing.T) {
	api := newFakeAPI()
	engine := testEngine(api, "", "db-1")

	_, err := engine.Sync(context.Background(), testCapture("https://ex.com"))
	assert.ErrorIs(t, err, session.ErrMissingCredential)
	assert.Zero(t, api.queryCalls)
	assert.Zero(t, api.createCalls)
	assert.Equal(t, StateFailed, engine.State())
}

func TestSync_MissingDatabaseFailsBeforeQuery(t *testing.T) {
	api := newFakeAPI()
	engine := testEngine(api, validBotID, "")

	_, err := engine.Sync(context.Background(), testCapture("https://ex.com"))
	assert.ErrorIs(t, err, ErrMissingDatabase)
	assert.Zero(t, api.queryCalls)
	assert.Equal(t, StateFailed, engine.State())
}

func TestSync_UnauthorizedSessionFails(t *testing.T) {
	api := newFakeAPI()
	sessions := session.NewManager(&fakeExchanger{resp: &notion.TokenResponse{Name: "UnauthorizedError"}})
	engine := NewEngine(sessions, api, validBotID, "db-1")

	_, err := engine.Sync(context.Background(), testCapture("https://ex.com"))
	assert.ErrorIs(t, err, session.ErrUnauthorized)
	assert.Zero(t, api.queryCalls)
	assert.Equal(t, StateFailed, engine.State())
}

func TestSync_APIErrorPropagatesWithDetails(t *testing.T) {
	api := newFakeAPI()
	api.createErr = &notion.APIError{Status: 400, Code: "validation_error", Message: "bad properties"}
	engine := testEngine(api, validBotID, "db-1")

	_, err := engine.Sync(context.Background(), testCapture("https://ex.com"))
	require.Error(t, err)

	var apiErr *notion.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "validation_error", apiErr.Code)
	assert.Equal(t, StateFailed, engine.State())
}

func TestSync_EmptyCaptureIsRejectedLocally(t *testing.T) {
	api := newFakeAPI()
	exchanger := &fakeExchanger{resp: &notion.TokenResponse{Token: "tok"}}
	engine := NewEngine(session.NewManager(exchanger), api, validBotID, "db-1")

	_, err := engine.Sync(context.Background(), capture.PageCapture{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, exchanger.calls)
	assert.Zero(t, api.queryCalls)
}

func TestResolver_MissingDatabase(t *testing.T) {
	r := NewResolver(newFakeAPI())

	_, err := r.Find(context.Background(), "", "https://ex.com")
	assert.ErrorIs(t, err, ErrMissingDatabase)
}

func TestResolver_NoMatchIsEmptyNotError(t *testing.T) {
	r := NewResolver(newFakeAPI())

	entries, err := r.Find(context.Background(), "db-1", "https://ex.com")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
