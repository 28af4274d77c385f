package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/tln/internal/output"
	"github.com/Dicklesworthstone/tln/internal/timeline"
	"github.com/Dicklesworthstone/tln/internal/util"
)

var cursorCmd = &cobra.Command{
	Use:   "cursor <WHEN>",
	Short: "Move the cursor of a running dashboard",
	Long: `Move the cursor of a running tln view --serve instance.

WHEN is an RFC 3339 timestamp, an offset from the start of the data
range ("90s", "5m"), or a step relative to the current cursor
("+30s", "-1m").

Examples:
  tln cursor 2025-06-01T12:00:00Z
  tln cursor 90s
  tln cursor +30s`,
	Args: cobra.ExactArgs(1),
	RunE: runCursor,
}

func init() {
	rootCmd.AddCommand(cursorCmd)
}

func runCursor(cmd *cobra.Command, args []string) error {
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
	at, err := parseInstant(args[0], snap)
	if err != nil {
		return err
	}

	snap, err = client.SetCursor(ctx, at)
	if err != nil {
		return err
	}
	return output.DefaultFormatter(jsonFlag).Output(snapshotResult{snap})
}

// parseInstant resolves WHEN arguments against the current state: an
// absolute timestamp, an offset from the data start, or a +/- step from
// the cursor.
func parseInstant(s string, snap timeline.Snapshot) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		d, err := util.ParseDuration(strings.TrimPrefix(s, "+"))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid step %q: %w", s, err)
		}
		return snap.Cursor.Add(d), nil
	}

	d, err := util.ParseDuration(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid instant %q: %w", s, err)
	}
	return snap.Data.Start.Add(d), nil
}
