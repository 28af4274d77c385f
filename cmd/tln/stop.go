package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/tln/internal/output"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop playback on a running dashboard",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	client, err := remoteClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snap, err := client.Stop(ctx)
	if err != nil {
		return err
	}
	return output.DefaultFormatter(jsonFlag).Output(snapshotResult{snap})
}
