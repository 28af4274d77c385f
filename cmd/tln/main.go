package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFlag string
	remoteFlag string
	jsonFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "tln",
	Short: "Timeline navigator - cursor, ranges, and playback over timestamped data",
	Long: `TLN navigates a timeline of timestamped data with a cursor,
a selection, and a zoomable view.

It allows you to:
  - Follow incoming data live, with the cursor pinned to the newest sample
  - Replay a selected span at any speed, forward or backward
  - Zoom and pan the view without touching the data
  - Control a running dashboard from another terminal`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ~/.config/tln/config.toml)")
	rootCmd.PersistentFlags().StringVar(&remoteFlag, "remote", "", "address of a running tln view --serve instance")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output as JSON")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
