package cli

import (
	"fmt"
	"strings"

	"github.com/ksyq12/makesite/internal/config"
	"github.com/ksyq12/makesite/internal/errors"
	"github.com/ksyq12/makesite/internal/logger"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a static site",
	Long: `Create the web root, log directory and HTTP config for a site and
enable it in sites-enabled.

Nothing is created when the config, the link, the web root or the log
directory already exists.

Examples:
  makesite create example.com
  makesite create example.com --type html`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&siteType, "type", "t", "html", "Site type (html)")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	return createSite(args[0])
}

func createSite(name string) error {
	if !config.IsValidType(siteType) {
		return errors.Validation(fmt.Sprintf("invalid type: %s. Valid types: %s",
			siteType, strings.Join(config.ValidTypes(), ", ")))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Info("creating site %s", name)
	s, err := newProvisioner(cfg).Create(name)
	if err != nil {
		return err
	}

	return outputResult(SiteResult{Success: true, Action: "create", Site: s}, doneMessage)
}
