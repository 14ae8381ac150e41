// Package cli provides the non-interactive command surface of postcraft.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "postcraft",
	Short:   "Turn a topic into a multi-page illustrated post",
	Long:    `Postcraft generates an outline from a topic, renders one image per page and produces titles, copywriting and tags for the finished post.`,
	Version: "0.1.0",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
