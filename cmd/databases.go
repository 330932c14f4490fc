package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/notionclip/internal/config"
	"github.com/user/notionclip/internal/notion"
	"github.com/user/notionclip/internal/session"
	"github.com/user/notionclip/internal/store"
	"github.com/user/notionclip/internal/tui"
	"github.com/user/notionclip/internal/ui"
)

var databasesPick bool

var databasesCmd = &cobra.Command{
	Use:   "databases",
	Short: "List databases shared with the integration",
	Long:  "List every database the integration can reach. With --pick, choose one interactively and store it as the save target.",
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

		databases, err := client.SearchDatabases(ctx)
		if err != nil {
			return err
		}

		if databasesPick {
			picked, err := tui.PickDatabase(databases)
			if err != nil {
				return err
			}
			if picked == nil {
				ui.Warning("No database selected.")
				return nil
			}
			if err := st.SetSetting(store.KeyDatabaseID, picked.ID); err != nil {
				return err
			}
			ui.Success("Target database set to %q (%s).", picked.Title, picked.ID)
			return nil
		}

		current, _ := st.Setting(store.KeyDatabaseID)
		if len(databases) == 0 {
			ui.Warning("No databases shared with the integration.")
			return nil
		}
		for _, db := range databases {
			marker := " "
			if db.ID == current {
				marker = "*"
			}
			fmt.Printf("%s %s\t%s\n", marker, db.ID, db.Title)
		}
		return nil
	},
}

func init() {
	databasesCmd.Flags().BoolVar(&databasesPick, "pick", false, "Pick the target database interactively")
	rootCmd.AddCommand(databasesCmd)
}
