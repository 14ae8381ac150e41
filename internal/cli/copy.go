package cli

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"postcraft/internal/app"
	"postcraft/internal/workflow"
)

var copyCmd = &cobra.Command{
	Use:       "copy {titles|copy|tags}",
	Short:     "Copy generated content to the clipboard",
	Long:      `Copy the generated titles, copywriting or tags from the last saved workflow to the system clipboard.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"titles", "copy", "tags"},
	RunE:      runCopy,
}

func init() {
	rootCmd.AddCommand(copyCmd)
}

func runCopy(cmd *cobra.Command, args []string) error {
	a := app.New(app.Options{})

	content := a.Workflow.Content()
	if content.Status != workflow.StatusDone {
		return fmt.Errorf("no generated content in the saved workflow, run generation first")
	}

	var text string
	switch args[0] {
	case "titles":
		text = strings.Join(content.Titles, "\n")
	case "copy":
		text = content.Copywriting
	case "tags":
		text = strings.Join(content.Tags, " ")
	default:
		return fmt.Errorf("unknown section %q, expected titles, copy or tags", args[0])
	}

	if text == "" {
		return fmt.Errorf("nothing to copy for %s", args[0])
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}

	fmt.Printf("Copied %s to clipboard.\n", args[0])
	return nil
}
