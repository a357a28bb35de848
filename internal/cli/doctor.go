package cli

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ksyq12/makesite/internal/certbot"
	"github.com/ksyq12/makesite/internal/config"
	"github.com/ksyq12/makesite/internal/executor"
	"github.com/ksyq12/makesite/internal/output"
	"github.com/ksyq12/makesite/internal/site"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system status and diagnose issues",
	Long: `Run diagnostic checks on the system and the site layout.

Checks:
  - nginx and certbot installation, nginx -t
  - Root privileges
  - Config file and layout directories
  - Artifacts of every site in sites-available

Examples:
  makesite doctor
  makesite doctor --json`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// Check statuses
const (
	statusSuccess = "success"
	statusWarning = "warning"
	statusError   = "error"
)

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// SiteReport holds the checks for one site
type SiteReport struct {
	Name   string        `json:"name"`
	Checks []CheckResult `json:"checks"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	SystemRequirements []CheckResult `json:"system_requirements"`
	Configuration      []CheckResult `json:"configuration"`
	Sites              []SiteReport  `json:"sites"`
}

// Errors counts the checks that failed outright
func (r *DoctorReport) Errors() int {
	n := 0
	count := func(checks []CheckResult) {
		for _, c := range checks {
			if c.Status == statusError {
				n++
			}
		}
	}
	count(r.SystemRequirements)
	count(r.Configuration)
	for _, s := range r.Sites {
		count(s.Checks)
	}
	return n
}

var nginxVersionPattern = regexp.MustCompile(`nginx/(\d+\.\d+\.\d+)`)

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	report := &DoctorReport{}
	report.SystemRequirements = checkSystemRequirements(deps.Executor, cfg)
	report.Configuration = checkConfiguration(cfg)
	report.Sites = checkSites(newProvisioner(cfg))

	if jsonOutput {
		if err := output.JSON(report); err != nil {
			return err
		}
	} else {
		displayDoctorResults(report)
	}

	if n := report.Errors(); n > 0 {
		return fmt.Errorf("doctor found %d problem(s)", n)
	}
	return nil
}

func checkSystemRequirements(exec executor.CommandExecutor, cfg *config.Config) []CheckResult {
	results := []CheckResult{}

	if _, err := exec.LookPath("nginx"); err == nil {
		// nginx -v writes its version to stderr
		version := "unknown"
		if res, err := exec.Execute("nginx", "-v"); err == nil && res != nil {
			out := append(append([]byte{}, res.Stderr...), res.Stdout...)
			if m := nginxVersionPattern.FindSubmatch(out); len(m) >= 2 {
				version = string(m[1])
			}
		}
		results = append(results, CheckResult{
			Status:  statusSuccess,
			Message: fmt.Sprintf("nginx installed (%s)", version),
		})
		results = append(results, checkNginxSyntax(exec))
	} else {
		results = append(results, CheckResult{
			Status:  statusError,
			Message: "nginx not installed",
		})
	}

	if certbot.New(cfg.Certbot, exec).IsInstalled() {
		results = append(results, CheckResult{
			Status:  statusSuccess,
			Message: fmt.Sprintf("certbot installed (%s)", cfg.Certbot),
		})
	} else {
		results = append(results, CheckResult{
			Status:  statusWarning,
			Message: fmt.Sprintf("certbot not found at %s (needed by enable_tls)", cfg.Certbot),
		})
	}

	if deps.RootChecker != nil && deps.RootChecker.IsRoot() {
		results = append(results, CheckResult{Status: statusSuccess, Message: "Running as root"})
	} else {
		results = append(results, CheckResult{
			Status:  statusWarning,
			Message: "Not running as root; writes to the nginx layout will likely fail",
		})
	}

	return results
}

// checkNginxSyntax runs nginx -t against the live configuration. A failure
// is only a warning since it usually means the caller is not root.
func checkNginxSyntax(exec executor.CommandExecutor) CheckResult {
	res, err := exec.Execute("nginx", "-t")
	if err == nil {
		return CheckResult{Status: statusSuccess, Message: "nginx config syntax OK"}
	}
	detail := err.Error()
	if res != nil {
		if lines := strings.Split(strings.TrimSpace(string(res.Stderr)), "\n"); lines[0] != "" {
			detail = lines[len(lines)-1]
		}
	}
	return CheckResult{
		Status:  statusWarning,
		Message: fmt.Sprintf("nginx config test failed: %s", detail),
	}
}

func checkConfiguration(cfg *config.Config) []CheckResult {
	results := []CheckResult{}

	if cfg.Source != "" {
		results = append(results, CheckResult{
			Status:  statusSuccess,
			Message: fmt.Sprintf("Config file loaded (%s)", cfg.Source),
		})
	} else {
		results = append(results, CheckResult{
			Status:  statusSuccess,
			Message: "No config file, using built-in layout",
		})
	}

	dirs := []struct {
		label    string
		path     string
		optional bool
	}{
		{"sites-available", cfg.Paths.Available, false},
		{"sites-enabled", cfg.Paths.Enabled, false},
		{"web root", cfg.Paths.WWW, false},
		{"log root", cfg.Paths.Logs, false},
		{"certificate root", cfg.Paths.Certs, true},
	}
	for _, d := range dirs {
		info, err := os.Stat(d.path)
		switch {
		case err == nil && info.IsDir():
			results = append(results, CheckResult{
				Status:  statusSuccess,
				Message: fmt.Sprintf("%s exists (%s)", d.label, d.path),
			})
		case err == nil:
			results = append(results, CheckResult{
				Status:  statusError,
				Message: fmt.Sprintf("%s is not a directory (%s)", d.label, d.path),
			})
		default:
			status := statusError
			if d.optional {
				status = statusWarning
			}
			results = append(results, CheckResult{
				Status:  status,
				Message: fmt.Sprintf("%s missing (%s)", d.label, d.path),
			})
		}
	}

	return results
}

func checkSites(p *site.Provisioner) []SiteReport {
	reports := []SiteReport{}

	names, err := p.List()
	if err != nil {
		return reports
	}

	for _, name := range names {
		report := SiteReport{Name: name, Checks: []CheckResult{}}
		st, err := p.Inspect(name)
		if err != nil {
			report.Checks = append(report.Checks, CheckResult{Status: statusError, Message: err.Error()})
			reports = append(reports, report)
			continue
		}

		if !st.Enabled {
			report.Checks = append(report.Checks, CheckResult{Status: statusWarning, Message: "not enabled"})
		}
		if !st.WebRoot {
			report.Checks = append(report.Checks, CheckResult{Status: statusWarning, Message: "web root missing"})
		}
		// nginx refuses to start when a log directory is missing
		if !st.LogDir {
			report.Checks = append(report.Checks, CheckResult{Status: statusError, Message: "log directory missing"})
		}
		if st.TLS {
			cert := p.Layout().Site(name).Cert
			for _, f := range []string{cert.CertPath, cert.KeyPath, cert.ChainPath} {
				if _, err := os.Stat(f); err != nil {
					report.Checks = append(report.Checks, CheckResult{
						Status:  statusError,
						Message: fmt.Sprintf("certificate file missing (%s)", f),
					})
				}
			}
		}

		if len(report.Checks) == 0 {
			mode := "http"
			if st.TLS {
				mode = "https"
			}
			report.Checks = append(report.Checks, CheckResult{
				Status:  statusSuccess,
				Message: fmt.Sprintf("enabled, %s", mode),
			})
		}
		reports = append(reports, report)
	}

	return reports
}

func displayDoctorResults(report *DoctorReport) {
	output.Print("Checking system requirements...")
	for _, check := range report.SystemRequirements {
		displayCheck("", check)
	}
	output.Print("")

	output.Print("Checking configuration...")
	for _, check := range report.Configuration {
		displayCheck("", check)
	}
	output.Print("")

	if len(report.Sites) == 0 {
		output.Print("No sites found")
		return
	}
	output.Print("Checking sites...")
	for _, s := range report.Sites {
		for _, check := range s.Checks {
			displayCheck(s.Name+" - ", check)
		}
	}
}

func displayCheck(prefix string, check CheckResult) {
	switch check.Status {
	case statusSuccess:
		output.Success("%s%s", prefix, check.Message)
	case statusWarning:
		output.Warn("%s%s", prefix, check.Message)
	case statusError:
		output.Error("%s%s", prefix, check.Message)
	}
}
