package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/tln/internal/output"
)

var zoomCmd = &cobra.Command{
	Use:   "zoom <START> <END>",
	Short: "Set the view range of a running dashboard",
	Long: `Set the view range of a running tln view --serve instance.

START and END use the same forms as tln cursor: an RFC 3339 timestamp,
an offset from the data start, or a +/- step from the current cursor.
END must not be before START.

Examples:
  tln zoom 0s 90s
  tln zoom -30s +30s`,
	Args: cobra.ExactArgs(2),
	RunE: runZoom,
}

func init() {
	rootCmd.AddCommand(zoomCmd)
}

func runZoom(cmd *cobra.Command, args []string) error {
	client, err := remoteClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snap, err := client.Snapshot(ctx)
	if err != nil {
		return err
	}
	start, err := parseInstant(args[0], snap)
	if err != nil {
		return err
	}
	end, err := parseInstant(args[1], snap)
	if err != nil {
		return err
	}

	snap, err = client.Zoom(ctx, start, end)
	if err != nil {
		return err
	}
	return output.DefaultFormatter(jsonFlag).Output(snapshotResult{snap})
}
