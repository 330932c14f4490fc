package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/notionclip/internal/ui"
)

var (
	listLimit int
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List locally cached saved pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		clips, err := st.Clips(listLimit)
		if err != nil {
			return err
		}

		if listJSON {
			data, err := json.MarshalIndent(clips, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if len(clips) == 0 {
			ui.Warning("Nothing saved yet.")
			return nil
		}
		for _, c := range clips {
			fmt.Printf("%s\t%s\n", c.SavedAt.Format("2006-01-02 15:04"), c.Title)
			fmt.Printf("  %s\n", c.URL)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "Maximum entries to show")
	listCmd.Flags().BoolVarP(&listJSON, "json", "j", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}
