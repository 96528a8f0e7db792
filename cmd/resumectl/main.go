// Command resumectl edits a local resume and syncs it with the resume builder API.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"resume-builder/internal/shared/telemetry"
)

type rootOptions struct {
	apiURL   string
	stateDir string
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "resumectl",
		Short: "Resume builder command line client",
		Long: `resumectl keeps a working resume on disk, saves it to your account
history, and calls the AI suggestion and CV transform endpoints.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", envOr("RESUMECTL_API_URL", "http://localhost:8080"), "API base URL")
	cmd.PersistentFlags().StringVar(&opts.stateDir, "state-dir", envOr("RESUMECTL_STATE_DIR", defaultStateDir()), "directory for local state")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 60*time.Second, "per-request timeout")

	cmd.AddCommand(
		newRegisterCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newShowCmd(opts),
		newNewCmd(opts),
		newTitleCmd(opts),
		newImportCmd(opts),
		newSaveCmd(opts),
		newListCmd(opts),
		newLoadCmd(opts),
		newDeleteCmd(opts),
		newRestoreCmd(opts),
		newSuggestCmd(opts),
		newTransformCmd(opts),
		newUsageCmd(opts),
	)
	return cmd
}

func main() {
	_ = godotenv.Load()
	telemetry.SetOutput(os.Stderr)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".resumectl"
	}
	return filepath.Join(home, ".resumectl")
}
