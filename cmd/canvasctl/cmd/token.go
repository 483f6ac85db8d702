package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/canvasprint/canvasprint/internal/config"
	"github.com/canvasprint/canvasprint/internal/middleware"
)

func newTokenCmd() *cobra.Command {
	var (
		configPath string
		subject    string
		ttl        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin token for the API",
		Long: `Issue a signed admin token using the server's JWT secret and issuer.

The secret is read from the same configuration the server uses: environment
variables, or the file given with --config.`,
		Example: `  canvasctl token --subject alice
  canvasctl token --subject ci --ttl 1h --config /etc/canvasprint/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if subject == "" {
				return fmt.Errorf("--subject is required")
			}
			if ttl <= 0 {
				return fmt.Errorf("--ttl must be positive")
			}

			var (
				cfg *config.Config
				err error
			)
			if configPath != "" {
				cfg, err = config.LoadFile(configPath)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			token, err := middleware.NewAdminAuth(cfg.Auth.JWTSecret, cfg.Auth.Issuer).IssueToken(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a config file")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Token subject (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}
