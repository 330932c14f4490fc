package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/notionclip/internal/config"
	"github.com/user/notionclip/internal/store"
	"github.com/user/notionclip/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read or write stored credentials",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting (botId or databaseId)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], strings.TrimSpace(args[1])

		switch key {
		case store.KeyBotID:
			if len(value) != 36 {
				ui.Danger("Invalid integration ID (must be 36 characters).")
				return fmt.Errorf("invalid botId")
			}
		case store.KeyDatabaseID:
			if value == "" {
				ui.Danger("Database ID cannot be empty.")
				return fmt.Errorf("empty databaseId")
			}
		default:
			return fmt.Errorf("unknown setting %q (expected %s or %s)", key, store.KeyBotID, store.KeyDatabaseID)
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SetSetting(key, value); err != nil {
			return err
		}
		ui.Success("%s saved.", key)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a stored setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if key != store.KeyBotID && key != store.KeyDatabaseID {
			return fmt.Errorf("unknown setting %q (expected %s or %s)", key, store.KeyBotID, store.KeyDatabaseID)
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		value, err := st.Setting(key)
		if err != nil {
			return err
		}
		if value == "" {
			ui.Warning("%s is not set.", key)
			return nil
		}
		fmt.Println(value)
		return nil
	},
}

func openStore() (*store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	st, err := store.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	return st, nil
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}
