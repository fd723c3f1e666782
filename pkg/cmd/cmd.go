// Package cmd contains the command line applications for the project.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "filevault",
		Short: "A self-hosted personal file vault with full-text search",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	registerServeCommands()
	registerConfigsCommands()
	registerDBCommands()
	registerMQCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
