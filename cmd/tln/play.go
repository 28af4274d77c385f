package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/tln/internal/output"
)

var playCmd = &cobra.Command{
	Use:   "play [SPEED]",
	Short: "Start playback on a running dashboard",
	Long: `Start playback on a running tln view --serve instance.

The dashboard must be in playback mode (tln mode playback). Speed is a
multiplier over real time; negative speeds play backward.

Examples:
  # Real time
  tln play

  # Double speed
  tln play 2

  # Backward at half speed
  tln play -- -0.5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	speed := 1.0
	if len(args) > 0 {
		parsed, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid speed %q: %w", args[0], err)
		}
		speed = parsed
	}

	client, err := remoteClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snap, err := client.Play(ctx, speed)
	if err != nil {
		return err
	}
	return output.DefaultFormatter(jsonFlag).Output(snapshotResult{snap})
}
