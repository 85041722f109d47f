package main

import (
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find [term...]",
	Short: "Search the company list (alias for direct search)",
	Long: `Search the company list for one or more terms.
A company matches when its code, name or furigana matches any term.

This command is an alias for the direct search: 'cfl <term...>'
You can use either 'cfl find トヨタ' or just 'cfl トヨタ'

Examples:
  cfl find トヨタ
  cfl find 7203 6758
  cfl find -e ソニーグループ`,
	RunE: runSearch, // Use the same function as root command
}

func init() {
	rootCmd.AddCommand(findCmd)
}
