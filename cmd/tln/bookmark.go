package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/tln/internal/bookmark"
	"github.com/Dicklesworthstone/tln/internal/output"
	"github.com/Dicklesworthstone/tln/internal/util"
)

var bookmarkNoteFlag string

var bookmarkCmd = &cobra.Command{
	Use:     "bookmark",
	Aliases: []string{"bm"},
	Short:   "Manage saved timeline ranges",
}

var bookmarkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved bookmarks",
	Args:  cobra.NoArgs,
	RunE:  runBookmarkList,
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add <NAME> <START> <END>",
	Short: "Save a timeline range under a name",
	Long: `Save a timeline range under a name.

START and END are RFC 3339 timestamps.

Examples:
  tln bookmark add deploy 2025-06-01T12:00:00Z 2025-06-01T12:05:00Z
  tln bookmark add spike 2025-06-01T03:00:00Z 2025-06-01T03:01:00Z --note "latency spike"`,
	Args: cobra.ExactArgs(3),
	RunE: runBookmarkAdd,
}

var bookmarkRmCmd = &cobra.Command{
	Use:   "rm <NAME>",
	Short: "Delete a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE:  runBookmarkRm,
}

func init() {
	bookmarkAddCmd.Flags().StringVar(&bookmarkNoteFlag, "note", "", "free-form note stored with the bookmark")
	bookmarkCmd.AddCommand(bookmarkListCmd, bookmarkAddCmd, bookmarkRmCmd)
	rootCmd.AddCommand(bookmarkCmd)
}

func openStore() (*bookmark.Store, error) {
	return bookmark.NewStore(bookmark.DefaultPath())
}

func runBookmarkList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	return output.DefaultFormatter(jsonFlag).Output(bookmarkListResult{store.List()})
}

func runBookmarkAdd(cmd *cobra.Command, args []string) error {
	start, err := time.Parse(time.RFC3339, args[1])
	if err != nil {
		return fmt.Errorf("invalid start %q: %w", args[1], err)
	}
	end, err := time.Parse(time.RFC3339, args[2])
	if err != nil {
		return fmt.Errorf("invalid end %q: %w", args[2], err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.Set(bookmark.Bookmark{
		Name:  args[0],
		Start: start,
		End:   end,
		Note:  bookmarkNoteFlag,
	}); err != nil {
		return err
	}
	fmt.Printf("Saved bookmark %q\n", args[0])
	return nil
}

func runBookmarkRm(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if _, ok := store.Get(args[0]); !ok {
		return fmt.Errorf("no bookmark named %q", args[0])
	}
	if err := store.Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted bookmark %q\n", args[0])
	return nil
}

type bookmarkListResult struct {
	bookmarks []bookmark.Bookmark
}

func (r bookmarkListResult) JSON() interface{} { return r.bookmarks }

func (r bookmarkListResult) Text(w io.Writer) error {
	if len(r.bookmarks) == 0 {
		fmt.Fprintln(w, "No bookmarks saved.")
		return nil
	}
	for _, b := range r.bookmarks {
		dur := util.FormatOffset(b.End.Sub(b.Start))
		fmt.Fprintf(w, "%-20s %s .. %s (%s)", b.Name,
			b.Start.Format(time.RFC3339), b.End.Format(time.RFC3339), dur)
		if b.Note != "" {
			fmt.Fprintf(w, "  # %s", b.Note)
		}
		fmt.Fprintln(w)
	}
	return nil
}
