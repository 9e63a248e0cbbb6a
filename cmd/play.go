package cmd

import "github.com/spf13/cobra"

var playCmd = &cobra.Command{
	Use:     "play",
	Aliases: []string{"quiz"},
	Short:   "Start a quiz in the terminal (the default command)",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runApp(cmd)
	},
}
