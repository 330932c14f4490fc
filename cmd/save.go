package cmd

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/notionclip/internal/browser"
	"github.com/user/notionclip/internal/capture"
	"github.com/user/notionclip/internal/config"
	"github.com/user/notionclip/internal/describe"
	"github.com/user/notionclip/internal/notion"
	"github.com/user/notionclip/internal/session"
	"github.com/user/notionclip/internal/store"
	"github.com/user/notionclip/internal/syncer"
	"github.com/user/notionclip/internal/ui"
)

var (
	saveTitle       string
	saveDescription string
	saveJSON        bool
)

var saveCmd = &cobra.Command{
	Use:   "save [url]",
	Short: "Save the active browser tab (or an explicit URL) to Notion",
	Long:  "Capture the active tab's metadata and create a row in the configured Notion database, unless a row for the same URL already exists.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSave,
}

func runSave(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st, err := store.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer st.Close()

	var pc capture.PageCapture
	if len(args) > 0 {
		// Explicit URL: no tab to scrape, metadata comes from flags only.
		pc = capture.Build(ctx, capture.TabInfo{URL: args[0], Title: saveTitle}, nil)
	} else {
		sess, err := browser.Connect(ctx, cfg.Browser.DebugURL)
		if err != nil {
			return err
		}
		defer sess.Close()

		tab, err := sess.ActiveTab(ctx)
		if err != nil {
			return err
		}
		pc = capture.Build(ctx, tab, sess)

		if cfg.Describe.Enabled && pc.Description == "" {
			fillDescription(ctx, cfg, sess, tab.TargetID, &pc)
		}
	}

	if saveTitle != "" {
		pc.Title = saveTitle
	}
	if saveDescription != "" {
		pc.Description = saveDescription
	}

	// A locally cached clip means the page was already synced; skip the
	// remote round trip entirely.
	if clip, err := st.ClipByURL(pc.URL); err == nil {
		ui.Warning("Already saved: %s", clip.Title)
		ui.Dim("%s", viewURL(clip.PageID))
		if saveJSON {
			return printJSON(notion.Entry{PageID: clip.PageID, Title: clip.Title, URL: clip.URL})
		}
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	botID, err := st.Setting(store.KeyBotID)
	if err != nil {
		return err
	}
	databaseID, err := st.Setting(store.KeyDatabaseID)
	if err != nil {
		return err
	}

	client := notion.NewClient(cfg.Notion)
	sessions := session.NewManager(client)
	engine := syncer.NewEngine(sessions, client, botID, databaseID)

	entry, err := engine.Sync(ctx, pc)
	if err != nil {
		renderSyncError(err)
		return err
	}

	clip := &store.Clip{PageID: entry.PageID, URL: pc.URL, Title: entry.Title, SavedAt: pc.SavedAt}
	if err := st.RecordClip(clip); err != nil {
		ui.Warning("could not cache the saved page locally: %v", err)
	}

	switch engine.State() {
	case syncer.StateFound:
		ui.Warning("Already saved: %s", entry.Title)
		select {
		case dup := <-engine.Duplicates():
			if dup.Description != "" {
				ui.Dim("%s", dup.Description)
			}
		default:
		}
	default:
		ui.Success("Saved: %s", entry.Title)
	}
	ui.Dim("%s", viewURL(entry.PageID))

	if saveJSON {
		return printJSON(*entry)
	}
	return nil
}

// fillDescription generates a description from page text when the scraper
// came back empty. Best effort only.
func fillDescription(ctx context.Context, cfg *config.Config, sess *browser.Session, targetID string, pc *capture.PageCapture) {
	text, err := sess.PageText(ctx, targetID)
	if err != nil {
		ui.Warning("could not read page text: %v", err)
		return
	}
	desc, err := describe.NewDescriber(cfg).Describe(ctx, text)
	if err != nil {
		ui.Warning("description generation failed: %v", err)
		return
	}
	pc.Description = desc
}

func renderSyncError(err error) {
	var apiErr *notion.APIError
	switch {
	case errors.Is(err, session.ErrMissingCredential),
		errors.Is(err, syncer.ErrMissingDatabase):
		ui.Danger("%v", err)
	case errors.Is(err, session.ErrUnauthorized):
		ui.Danger("%v", err)
	case errors.As(err, &apiErr):
		ui.Danger("[%s] %s (HTTP %d)", apiErr.Code, apiErr.Message, apiErr.Status)
	default:
		ui.Danger("%v", err)
	}
}

func viewURL(pageID string) string {
	return "https://notion.so/" + strings.ReplaceAll(pageID, "-", "")
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	saveCmd.Flags().StringVarP(&saveTitle, "title", "t", "", "Override the captured title")
	saveCmd.Flags().StringVarP(&saveDescription, "description", "d", "", "Override the captured description")
	saveCmd.Flags().BoolVarP(&saveJSON, "json", "j", false, "Output the saved entry as JSON")
	rootCmd.AddCommand(saveCmd)
}
