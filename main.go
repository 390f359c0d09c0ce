package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/helmcode/casediag/cmd"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "casediag",
		Short: "Diagnostic case reports from the command line",
		Long: `casediag works with diagnostic cases: open a case, fetch the capture script,
upload its results and read the analysis, rendered as tables, raw output,
suggestions and a CPU usage chart.`,
		SilenceUsage: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(
		cmd.NewLoginCmd(),
		cmd.NewRegisterCmd(),
		cmd.NewLogoutCmd(),
		cmd.NewPasswdCmd(),
		cmd.NewWhoamiCmd(),
		cmd.NewCasesCmd(),
		cmd.NewCreateCmd(),
		cmd.NewShowCmd(),
		cmd.NewUploadCmd(),
		cmd.NewScriptCmd(),
		cmd.NewCommentsCmd(),
		cmd.NewReportCmd(),
		cmd.NewCaptureCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("casediag version %s\n", version)
		},
	}
}
