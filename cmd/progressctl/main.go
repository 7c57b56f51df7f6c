package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/myprogress/cmd/progressctl/cmd"
	"github.com/templui/myprogress/internal/logger"
)

func main() {
	logger.Init(true, "")

	rootCmd := &cobra.Command{
		Use:          "progressctl",
		Short:        "Operator tools for the MyProgress API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.TokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
