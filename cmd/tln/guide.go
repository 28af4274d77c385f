package main

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/tln/internal/output"
)

//go:embed guide.md
var guideText string

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Show the user guide",
	Args:  cobra.NoArgs,
	RunE:  runGuide,
}

func init() {
	rootCmd.AddCommand(guideCmd)
}

func runGuide(cmd *cobra.Command, args []string) error {
	if !output.IsTerminal() {
		fmt.Print(guideText)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(output.TerminalWidth(100)),
	)
	if err != nil {
		fmt.Print(guideText)
		return nil
	}
	rendered, err := renderer.Render(guideText)
	if err != nil {
		fmt.Print(guideText)
		return nil
	}
	fmt.Print(rendered)
	return nil
}
