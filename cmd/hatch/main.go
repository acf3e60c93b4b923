package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/simonhull/firebird-suite/hatch/internal/commands"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.NewCmd())
	rootCmd.AddCommand(commands.ApplyCmd())
	rootCmd.AddCommand(commands.StepsCmd())
	rootCmd.AddCommand(commands.DepsCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.Error(err.Error())
		return 1
	}
	return 0
}
