// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gestao-obras",
	Short: "gestao-obras is the back office service for construction-project management",
	Long: `gestao-obras is the back office service for construction-project
management: clients, contracts, budgets, expenses, material pricing,
maintenance test logs, user/group/permission administration and backups.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
