package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/notionclip/internal/config"
	"github.com/user/notionclip/internal/notion"
	"github.com/user/notionclip/internal/session"
	"github.com/user/notionclip/internal/store"
)

// page is a diagnostic command: fetch one row by ID and dump it.
var pageCmd = &cobra.Command{
	Use:    "page <pageId>",
	Short:  "Fetch a single Notion page (diagnostics)",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		botID, err := st.Setting(store.KeyBotID)
		if err != nil {
			return err
		}

		client := notion.NewClient(cfg.Notion)
		sessions := session.NewManager(client)

		token, err := sessions.EnsureToken(ctx, botID)
		if err != nil {
			return err
		}
		client.SetToken(token.Value)

		raw, err := client.RetrievePage(ctx, args[0])
		if err != nil {
			return err
		}

		var pretty interface{}
		if err := json.Unmarshal(raw, &pretty); err != nil {
			fmt.Println(string(raw))
			return nil
		}
		out, err := json.MarshalIndent(pretty, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pageCmd)
}
