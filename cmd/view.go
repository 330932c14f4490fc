package cmd

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/user/notionclip/internal/store"
	"github.com/user/notionclip/internal/ui"
)

var viewOpen bool

var viewCmd = &cobra.Command{
	Use:   "view [url]",
	Short: "Show the Notion page for a saved URL",
	Long:  "Print the notion.so link for a previously saved URL (the most recent one when omitted). With --open, open it in the default browser.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		var clip *store.Clip
		if len(args) > 0 {
			clip, err = st.ClipByURL(args[0])
			if err != nil {
				ui.Danger("No saved page for %s.", args[0])
				return err
			}
		} else {
			clips, err := st.Clips(1)
			if err != nil {
				return err
			}
			if len(clips) == 0 {
				ui.Warning("Nothing saved yet.")
				return nil
			}
			clip = &clips[0]
		}

		link := viewURL(clip.PageID)
		fmt.Println(link)
		if viewOpen {
			openBrowser(link)
		}
		return nil
	},
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	}
	if cmd != nil {
		cmd.Start()
	}
}

func init() {
	viewCmd.Flags().BoolVarP(&viewOpen, "open", "o", false, "Open the page in the default browser")
	rootCmd.AddCommand(viewCmd)
}
