package main

import (
	"os"

	"github.com/dmitrijs2005/issuetracker/internal/admin"
)

func main() {
	rootCmd := admin.NewRootCommand(admin.OpenPostgres, admin.PromptPassword)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
