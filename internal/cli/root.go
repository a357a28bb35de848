package cli

import (
	"os"

	"github.com/ksyq12/makesite/internal/errors"
	"github.com/ksyq12/makesite/internal/logger"
	"github.com/ksyq12/makesite/internal/output"
	"github.com/spf13/cobra"
)

var (
	configPath string
	jsonOutput bool
	verbose    bool
	version    = "dev"

	siteType  string
	certEmail string
	getCert   bool
)

// rootCmd represents the base command. Given a site name it runs the
// combined form: create, or enable_tls when --get_cert is set.
var rootCmd = &cobra.Command{
	Use:   "makesite [name]",
	Short: "Static site provisioning for nginx",
	Long: `makesite creates static nginx sites and switches them to HTTPS.

A site gets a web root with a placeholder index.html, a log directory, an
HTTP server block in sites-available and a symlink in sites-enabled.
enable_tls obtains a Let's Encrypt certificate through certbot and replaces
the config with an HTTPS one, keeping the old config as a commented backup.

nginx is never reloaded. Restart it yourself once you are done.

Examples:
  makesite create example.com
  makesite enable_tls example.com --cert_email admin@example.com
  makesite example.com
  makesite example.com --get_cert --cert_email admin@example.com`,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runRoot,
}

// Execute runs the root command
func Execute() {
	// Initialize logger based on verbose flag (parsed by cobra)
	cobra.OnInitialize(func() {
		logger.Init(verbose)
	})

	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(errors.ExitCode(err))
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $MAKESITE_CONFIG or /etc/makesite/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")

	rootCmd.Flags().StringVarP(&siteType, "type", "t", "html", "Site type (html)")
	rootCmd.Flags().BoolVar(&getCert, "get_cert", false, "Obtain a certificate instead of creating the site")
	rootCmd.Flags().StringVar(&certEmail, "cert_email", "", "Email for Let's Encrypt registration")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	if getCert {
		return enableTLS(args[0])
	}
	return createSite(args[0])
}
