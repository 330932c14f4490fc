// Package browser talks to a locally running Chrome over the DevTools
// protocol: it finds the active tab and reads best-effort page metadata out
// of it. Everything here is a collaborator of the sync pipeline, never a
// gatekeeper; scrape failures degrade to empty metadata.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/user/notionclip/internal/capture"
)

const evalTimeout = 10 * time.Second

// metaScrapeJS mirrors the page-side scrape: og:description with a
// meta[name=description] fallback, plus og:image.
const metaScrapeJS = `(() => {
	const out = { description: '', imageUrl: '' };
	const og = document.querySelector('meta[property="og:description"]');
	if (og) {
		out.description = og.getAttribute('content') || '';
	} else {
		const fb = document.querySelector('meta[name="description"]');
		if (fb) out.description = fb.getAttribute('content') || '';
	}
	const img = document.querySelector('meta[property="og:image"]');
	if (img) out.imageUrl = img.getAttribute('content') || '';
	return out;
})()`

const pageTextJS = `document.body ? document.body.innerText : ''`

// Session is one connection to a running browser.
type Session struct {
	browserCtx context.Context
	cancels    []context.CancelFunc
}

// Connect attaches to the Chrome instance listening at debugURL
// (e.g. http://localhost:9222).
func Connect(ctx context.Context, debugURL string) (*Session, error) {
	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, debugURL)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Force the connection now so a missing browser fails here, not on the
	// first use.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("connect to browser at %s: %w", debugURL, err)
	}

	return &Session{
		browserCtx: browserCtx,
		cancels:    []context.CancelFunc{cancelBrowser, cancelAlloc},
	}, nil
}

func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

// ActiveTab returns the first regular page target. Extension and devtools
// targets are skipped.
func (s *Session) ActiveTab(ctx context.Context) (capture.TabInfo, error) {
	var targets []*target.Info
	err := chromedp.Run(s.browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			targets, err = target.GetTargets().Do(ctx)
			return err
		}),
	)
	if err != nil {
		return capture.TabInfo{}, fmt.Errorf("get targets: %w", err)
	}

	for _, t := range targets {
		if t.Type != "page" {
			continue
		}
		if strings.HasPrefix(t.URL, "chrome-extension://") || strings.HasPrefix(t.URL, "devtools://") {
			continue
		}
		return capture.TabInfo{
			TargetID: string(t.TargetID),
			Title:    t.Title,
			URL:      t.URL,
		}, nil
	}
	return capture.TabInfo{}, fmt.Errorf("no open page tab found")
}

// ScrapeMetadata evaluates the metadata scrape in the tab. Implements
// capture.MetadataScraper.
func (s *Session) ScrapeMetadata(ctx context.Context, targetID string) (capture.Meta, error) {
	tabCtx, cancel := s.tabContext(targetID)
	defer cancel()

	var result struct {
		Description string `json:"description"`
		ImageURL    string `json:"imageUrl"`
	}
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(metaScrapeJS, &result)); err != nil {
		return capture.Meta{}, fmt.Errorf("scrape metadata: %w", err)
	}
	return capture.Meta{Description: result.Description, ImageURL: result.ImageURL}, nil
}

// PageText returns the tab's visible text, capped to keep downstream LLM
// usage bounded.
func (s *Session) PageText(ctx context.Context, targetID string) (string, error) {
	tabCtx, cancel := s.tabContext(targetID)
	defer cancel()

	var text string
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(pageTextJS, &text)); err != nil {
		return "", fmt.Errorf("page text: %w", err)
	}

	const maxContentLen = 50000
	if len(text) > maxContentLen {
		text = text[:maxContentLen]
	}
	return text, nil
}

func (s *Session) tabContext(targetID string) (context.Context, context.CancelFunc) {
	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx,
		chromedp.WithTargetID(target.ID(targetID)))
	timeoutCtx, cancelTimeout := context.WithTimeout(tabCtx, evalTimeout)
	return timeoutCtx, func() {
		cancelTimeout()
		cancelTab()
	}
}
