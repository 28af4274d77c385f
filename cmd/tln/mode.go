package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/tln/internal/output"
)

var modeCmd = &cobra.Command{
	Use:   "mode <live|playback>",
	Short: "Switch the navigation mode of a running dashboard",
	Long: `Switch a running tln view --serve instance between live and
playback mode.

Leaving playback mode stops any running playback.

Examples:
  tln mode playback
  tln mode live`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"live", "playback"},
	RunE:      runMode,
}

func init() {
	rootCmd.AddCommand(modeCmd)
}

func runMode(cmd *cobra.Command, args []string) error {
	client, err := remoteClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snap, err := client.SetMode(ctx, args[0])
	if err != nil {
		return err
	}
	return output.DefaultFormatter(jsonFlag).Output(snapshotResult{snap})
}
