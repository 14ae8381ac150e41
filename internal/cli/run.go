package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"postcraft/internal/app"
	"postcraft/internal/workflow"
)

var runFresh bool

var runCmd = &cobra.Command{
	Use:   "run <topic>",
	Short: "Generate a full post without the TUI",
	Long:  `Run the whole workflow non-interactively: generate an outline for the topic, render every page, generate titles/copywriting/tags and save the result.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runFresh, "fresh", false, "discard any saved workflow before running")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	a := app.New(app.Options{})
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if runFresh {
		a.Saver.Reset()
	}

	topic := args[0]
	fmt.Printf("Generating outline for %q...\n", topic)
	if err := a.Generator.GenerateOutline(ctx, topic); err != nil {
		return fmt.Errorf("failed to generate outline: %w", err)
	}

	pages := a.Workflow.Outline().Pages
	fmt.Printf("Outline ready: %d pages. Rendering...\n", len(pages))
	if err := a.Generator.GenerateImages(ctx); err != nil {
		return fmt.Errorf("failed to generate images: %w", err)
	}

	for _, img := range a.Workflow.Images() {
		switch img.Status {
		case workflow.ImageDone:
			fmt.Printf("  page %d: %s\n", img.Index+1, img.URL)
		default:
			fmt.Fprintf(os.Stderr, "  page %d failed: %s\n", img.Index+1, img.Error)
		}
	}

	if failed := a.Workflow.FailedPages(); len(failed) > 0 {
		fmt.Printf("Retrying %d failed page(s)...\n", len(failed))
		a.Generator.RegenerateFailed(ctx)
	}

	fmt.Println("Generating content...")
	if err := a.Generator.GenerateContent(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "content generation failed: %v\n", err)
	}

	if err := a.Saver.SaveNow(ctx); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	content := a.Workflow.Content()
	if content.Status == workflow.StatusDone {
		fmt.Println("\nTitles:")
		for _, t := range content.Titles {
			fmt.Println("  " + t)
		}
		fmt.Println("\nCopywriting:")
		fmt.Println(content.Copywriting)
		fmt.Println("\nTags:")
		for _, t := range content.Tags {
			fmt.Print(t + " ")
		}
		fmt.Println()
	}

	if a.Workflow.HasFailedImages() {
		return fmt.Errorf("finished with %d failed page(s)", len(a.Workflow.FailedImages()))
	}
	fmt.Println("Done.")
	return nil
}
