package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/notionclip/internal/config"
	"github.com/user/notionclip/internal/notion"
	"github.com/user/notionclip/internal/session"
	"github.com/user/notionclip/internal/store"
	"github.com/user/notionclip/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check configuration and the Notion connection",
	Long:  "Verify that the integration ID and database ID are configured and that the integration ID can be exchanged for a token.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		st, err := store.NewStore(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open local store: %w", err)
		}
		defer st.Close()

		botID, err := st.Setting(store.KeyBotID)
		if err != nil {
			return err
		}
		databaseID, err := st.Setting(store.KeyDatabaseID)
		if err != nil {
			return err
		}

		if botID == "" {
			ui.Warning("Notion integration ID is not set. Run `notionclip config set botId <id>`.")
			return nil
		}
		if databaseID == "" {
			ui.Warning("Notion database ID is not set. Run `notionclip databases --pick`.")
		}

		client := notion.NewClient(cfg.Notion)
		sessions := session.NewManager(client)

		token, err := sessions.EnsureToken(cmd.Context(), botID)
		switch {
		case errors.Is(err, session.ErrMissingCredential):
			ui.Danger("Stored integration ID is invalid (must be 36 characters).")
			return nil
		case errors.Is(err, session.ErrUnauthorized):
			ui.Danger("Not logged in to notion.so. Log in with your browser and retry.")
			return nil
		case err != nil:
			ui.Danger("Connection error: %v", err)
			return nil
		}

		ui.Success("Connected to notion.so (session %s).", token.State)

		count, err := st.Count()
		if err == nil {
			ui.Dim("%d page(s) cached locally.", count)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
