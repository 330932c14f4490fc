// Package syncer orchestrates the capture-dedupe-create pipeline: acquire a
// session token, resolve a duplicate by URL, and create a new row only when
// none exists.
package syncer

import (
	"context"
	"errors"

	"github.com/user/notionclip/internal/capture"
	"github.com/user/notionclip/internal/notion"
	"github.com/user/notionclip/internal/session"
)

var (
	// ErrMissingDatabase means no target database is configured. Checked
	// before any remote query.
	ErrMissingDatabase = errors.New("notion database ID is not configured; run `notionclip databases --pick` or `notionclip config set databaseId <id>`")
	// ErrValidation means the capture itself is unusable.
	ErrValidation = errors.New("capture has no URL")
)

// RemoteAPI is the slice of the Notion client the pipeline uses.
type RemoteAPI interface {
	SetToken(token string)
	QueryDatabase(ctx context.Context, databaseID, url string) ([]notion.Entry, error)
	CreatePage(ctx context.Context, databaseID string, pc capture.PageCapture) (*notion.Entry, error)
}

// DuplicateFound is emitted when the resolver finds an existing row, so the
// caller can surface the remote title/description without knowing how the
// lookup works.
type DuplicateFound struct {
	PageID      string
	Title       string
	Description string
}

// Resolver answers "does a row for this URL already exist?" with an exact
// equality filter; no URL normalization is applied.
type Resolver struct {
	api RemoteAPI
}

func NewResolver(api RemoteAPI) *Resolver {
	return &Resolver{api: api}
}

// Find returns every existing row matching url exactly. Zero matches is a
// normal outcome, not an error.
func (r *Resolver) Find(ctx context.Context, databaseID, url string) ([]notion.Entry, error) {
	if databaseID == "" {
		return nil, ErrMissingDatabase
	}
	return r.api.QueryDatabase(ctx, databaseID, url)
}

// State is the engine's position in one sync transaction.
type State int

const (
	StateIdle State = iota
	StateAcquiringSession
	StateResolvingDuplicate
	StateCreating
	StateFound
	StateCreated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAcquiringSession:
		return "acquiring-session"
	case StateResolvingDuplicate:
		return "resolving-duplicate"
	case StateCreating:
		return "creating"
	case StateFound:
		return "found"
	case StateCreated:
		return "created"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Engine runs one sync transaction at a time. It holds no cross-call state
// about resolved entries; short-circuiting repeat submissions is the
// caller's job.
type Engine struct {
	sessions *session.Manager
	api      RemoteAPI
	resolver *Resolver

	botID      string
	databaseID string

	state      State
	duplicates chan DuplicateFound
}

func NewEngine(sessions *session.Manager, api RemoteAPI, botID, databaseID string) *Engine {
	return &Engine{
		sessions:   sessions,
		api:        api,
		resolver:   NewResolver(api),
		botID:      botID,
		databaseID: databaseID,
		state:      StateIdle,
		duplicates: make(chan DuplicateFound, 1),
	}
}

// State reports the engine's current transaction state.
func (e *Engine) State() State {
	return e.state
}

// Duplicates delivers at most one notification per resolved duplicate.
func (e *Engine) Duplicates() <-chan DuplicateFound {
	return e.duplicates
}

// Sync runs the full pipeline for one capture: session, dedupe, then create.
// Token acquisition always completes before the duplicate query, and the
// query always completes before creation. Exactly one query and one create
// are issued for a fresh URL; a duplicate hit returns the existing entry
// with no create call.
func (e *Engine) Sync(ctx context.Context, pc capture.PageCapture) (*notion.Entry, error) {
	if pc.URL == "" {
		return nil, e.fail(ErrValidation)
	}

	e.state = StateAcquiringSession
	token, err := e.sessions.EnsureToken(ctx, e.botID)
	if err != nil {
		return nil, e.fail(err)
	}
	e.api.SetToken(token.Value)

	e.state = StateResolvingDuplicate
	entries, err := e.resolver.Find(ctx, e.databaseID, pc.ID)
	if err != nil {
		return nil, e.fail(err)
	}
	if len(entries) > 0 {
		existing := entries[0]
		e.notifyDuplicate(existing)
		e.state = StateFound
		return &existing, nil
	}

	e.state = StateCreating
	entry, err := e.api.CreatePage(ctx, e.databaseID, pc)
	if err != nil {
		return nil, e.fail(err)
	}
	e.state = StateCreated
	return entry, nil
}

func (e *Engine) fail(err error) error {
	e.state = StateFailed
	return err
}

func (e *Engine) notifyDuplicate(entry notion.Entry) {
	ev := DuplicateFound{
		PageID:      entry.PageID,
		Title:       entry.Title,
		Description: entry.Description,
	}
	select {
	case e.duplicates <- ev:
	default:
	}
}
