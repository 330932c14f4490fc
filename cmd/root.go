package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "notionclip",
	Short:         "Save the current browser page to a Notion database",
	Long:          "Capture the page open in your browser and save its metadata (title, description, preview image, URL) as a row in a Notion database. The same URL is never saved twice.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare invocation behaves like `save`.
		return runSave(cmd, args)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (default: ~/.notionclip)")
	rootCmd.Flags().StringVarP(&saveTitle, "title", "t", "", "Override the captured title")
	rootCmd.Flags().StringVarP(&saveDescription, "description", "d", "", "Override the captured description")
	rootCmd.Flags().BoolVarP(&saveJSON, "json", "j", false, "Output the saved entry as JSON")
}
