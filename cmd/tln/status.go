package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/tln/internal/config"
	"github.com/Dicklesworthstone/tln/internal/output"
	"github.com/Dicklesworthstone/tln/internal/remote"
	"github.com/Dicklesworthstone/tln/internal/timeline"
	"github.com/Dicklesworthstone/tln/internal/util"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of a running dashboard",
	Long: `Show the cursor, ranges, mode, and playback state of a running
tln view --serve instance.

Examples:
  # Human-readable state
  tln status

  # Machine-readable
  tln status --json

  # A dashboard on a non-default port
  tln status --remote 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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
	return output.DefaultFormatter(jsonFlag).Output(snapshotResult{snap})
}

// remoteClient resolves the control server address from the --remote
// flag or the config file.
func remoteClient() (*remote.Client, error) {
	addr := remoteFlag
	if addr == "" {
		cfgPath := configFlag
		if cfgPath == "" {
			cfgPath = config.DefaultPath()
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
		addr = cfg.Remote.Listen
	}
	return remote.NewClient(addr), nil
}

// snapshotResult renders a navigation snapshot for the CLI.
type snapshotResult struct {
	snap timeline.Snapshot
}

func (r snapshotResult) JSON() interface{} { return r.snap }

func (r snapshotResult) Text(w io.Writer) error {
	s := r.snap

	mode := "live"
	if s.Mode == timeline.RemotePlayback {
		mode = "playback"
	}
	state := "stopped"
	if s.Playing {
		state = "playing " + util.FormatSpeed(s.Speed)
	}

	anchor := s.Data.Start
	fmt.Fprintf(w, "Mode:      %s (%s)\n", mode, state)
	fmt.Fprintf(w, "Cursor:    %s\n", util.FormatOffset(s.Cursor.Sub(anchor)))
	fmt.Fprintf(w, "Data:      %s\n", formatPair(s.Data, anchor))
	fmt.Fprintf(w, "Selection: %s\n", formatPair(s.Selection, anchor))
	fmt.Fprintf(w, "View:      %s\n", formatPair(s.View, anchor))
	return nil
}

func formatPair(p timeline.RangePair, anchor time.Time) string {
	r := p.Range()
	start := util.FormatOffset(r.Start.Sub(anchor))
	end := util.FormatOffset(r.End.Sub(anchor))
	if d, ok := r.Duration(); ok {
		return fmt.Sprintf("[%s .. %s] (%s)", start, end, util.FormatOffset(d))
	}
	return fmt.Sprintf("[%s .. %s]", start, end)
}
