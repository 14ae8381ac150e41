package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"postcraft/internal/app"
	"postcraft/internal/workflow"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved workflow state",
	Long:  `Show the stage, pages and per-page image status of the locally saved workflow.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a := app.New(app.Options{})

	if a.Workflow.Stage() == workflow.StageInput && a.Workflow.Topic() == "" {
		fmt.Println("No saved workflow.")
		return nil
	}

	fmt.Printf("Topic:  %s\n", a.Workflow.Topic())
	fmt.Printf("Stage:  %s\n", a.Workflow.Stage())
	if id := a.Workflow.RecordID(); id != "" {
		fmt.Printf("Record: %s\n", id)
	}
	if at := a.Workflow.LastSavedAt(); at != nil {
		fmt.Printf("Saved:  %s\n", formatAge(*at))
	}

	images := a.Workflow.Images()
	if len(images) == 0 {
		return nil
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PAGE\tSTATUS\tURL")
	byIndex := make(map[int]workflow.GeneratedImage, len(images))
	for _, img := range images {
		byIndex[img.Index] = img
	}
	for _, p := range a.Workflow.Outline().Pages {
		img, ok := byIndex[p.Index]
		if !ok {
			fmt.Fprintf(w, "%d\t-\t\n", p.Index+1)
			continue
		}
		detail := img.URL
		if img.Status == workflow.ImageError {
			detail = img.Error
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", p.Index+1, img.Status, detail)
	}
	return w.Flush()
}

// formatAge returns a human-readable relative time string.
func formatAge(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	}

	minutes := int(duration.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}

	hours := int(duration.Hours())
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}

	return fmt.Sprintf("%dd ago", hours/24)
}
