// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/law-makers/linkfill/internal/app"
	"github.com/law-makers/linkfill/internal/config"
	"github.com/law-makers/linkfill/internal/ui"
)

var (
	quiet      bool
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "linkfill",
	Short: "Turn a product page link into a catalog record",
	Long: `Linkfill downloads a shop's product page and extracts its title, price, main
image and supplier, so a catalog entry can be filled in from a pasted link.

Structured data (JSON-LD) is preferred, then meta tags, then common page
selectors. Fields that cannot be found are left empty rather than guessed.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the root command with ctx. It is called by main.main().
func ExecuteContext(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.Error("error:"), err)
		return 1
	}
	return 0
}

func init() {
	// Initialize the application lazily so -h/--help never builds it
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetAppFromCmd(cmd) != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}
		quiet = cfg.Quiet
		jsonOutput = cfg.JSONLog

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		SetApp(cmd, a)
		return nil
	}

	// Ensure app is closed after command runs
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		a := GetAppFromCmd(cmd)
		if a == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
		defer cancel()
		err := a.Close(ctx)
		SetApp(cmd, nil)
		return err
	}
}

func init() {
	// Register centralized flags
	config.RegisterFlags(rootCmd)

	// Customize help and version flag descriptions
	rootCmd.Flags().BoolP("help", "h", false, "Help for Linkfill")
	rootCmd.Flags().Bool("version", false, "Version for Linkfill")
}

func init() {
	// Disable the default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd.OutOrStdout(), cmd)
	})
	rootCmd.SetUsageFunc(func(cmd *cobra.Command) error {
		renderUsage(cmd.ErrOrStderr(), cmd)
		return nil
	})
}
