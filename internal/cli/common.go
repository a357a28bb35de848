package cli

import (
	"github.com/ksyq12/makesite/internal/certbot"
	"github.com/ksyq12/makesite/internal/config"
	"github.com/ksyq12/makesite/internal/logger"
	"github.com/ksyq12/makesite/internal/output"
	"github.com/ksyq12/makesite/internal/site"
)

// doneMessage is printed after a successful create or enable_tls
const doneMessage = "All done! Now you can restart your nginx server"

// SiteResult is the --json output of create and enable_tls
type SiteResult struct {
	Success bool       `json:"success"`
	Action  string     `json:"action"`
	Site    *site.Site `json:"site"`
}

// loadConfig loads the layout from --config, $MAKESITE_CONFIG or the default path
func loadConfig() (*config.Config, error) {
	cfg, err := deps.ConfigLoader.Load(configPath)
	if err != nil {
		return nil, err
	}
	source := cfg.Source
	if source == "" {
		source = "defaults"
	}
	logger.DebugFields("config loaded", logger.Fields{
		"source":    source,
		"available": cfg.Paths.Available,
		"www":       cfg.Paths.WWW,
	})
	return cfg, nil
}

// newProvisioner wires the certbot client and progress output into a
// provisioner for cfg. Progress lines are suppressed under --json so
// stdout stays a single JSON document.
func newProvisioner(cfg *config.Config) *site.Provisioner {
	issuer := certbot.New(cfg.Certbot, deps.Executor)

	opts := []site.Option{site.WithType(siteType)}
	if deps.Clock != nil {
		opts = append(opts, site.WithClock(deps.Clock))
	}
	if !jsonOutput {
		opts = append(opts, site.WithReporter(output.Reporter{}))
	}
	return site.New(cfg.Paths, issuer, opts...)
}

// outputResult handles JSON or human-readable output
func outputResult(data interface{}, successMsg string, args ...interface{}) error {
	if jsonOutput {
		return output.JSON(data)
	}
	output.Success(successMsg, args...)
	return nil
}
