package cli

import (
	"github.com/ksyq12/makesite/internal/errors"
	"github.com/ksyq12/makesite/internal/logger"
	"github.com/spf13/cobra"
)

var enableTLSCmd = &cobra.Command{
	Use:     "enable_tls <name>",
	Aliases: []string{"enable-tls"},
	Short:   "Obtain a certificate and switch a site to HTTPS",
	Long: `Obtain a Let's Encrypt certificate for the site and its www. alias
through certbot's nginx plugin, then replace the enabled config with the
HTTPS one.

The replaced config is kept at the end of the file as a commented backup.
Running it again issues a new certificate and adds another backup.

Examples:
  makesite enable_tls example.com --cert_email admin@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runEnableTLS,
}

func init() {
	enableTLSCmd.Flags().StringVar(&certEmail, "cert_email", "", "Email for Let's Encrypt registration (required)")
	rootCmd.AddCommand(enableTLSCmd)
}

func runEnableTLS(cmd *cobra.Command, args []string) error {
	return enableTLS(args[0])
}

func enableTLS(name string) error {
	// Checked before anything touches the disk or spawns certbot
	if certEmail == "" {
		return errors.MissingParameter("--cert_email")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Info("enabling TLS for %s", name)
	s, err := newProvisioner(cfg).EnableTLS(name, certEmail)
	if err != nil {
		return err
	}

	return outputResult(SiteResult{Success: true, Action: "enable_tls", Site: s}, doneMessage)
}
