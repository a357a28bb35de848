package certbot

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ksyq12/makesite/internal/errors"
	"github.com/ksyq12/makesite/internal/executor"
	"github.com/ksyq12/makesite/internal/logger"
)

// DefaultBinary is where distribution packages install certbot.
const DefaultBinary = "/usr/bin/certbot"

// Cert holds the files certbot keeps under its live directory for a domain
type Cert struct {
	Domain    string
	CertPath  string
	KeyPath   string
	ChainPath string
}

// Paths returns the certificate paths for domain under certRoot
// (normally /etc/letsencrypt/live).
func Paths(certRoot, domain string) Cert {
	dir := filepath.Join(certRoot, domain)
	return Cert{
		Domain:    domain,
		CertPath:  filepath.Join(dir, "fullchain.pem"),
		KeyPath:   filepath.Join(dir, "privkey.pem"),
		ChainPath: filepath.Join(dir, "chain.pem"),
	}
}

// Client runs the certbot binary
type Client struct {
	binary string
	exec   executor.CommandExecutor
}

// New creates a Client for the certbot binary at path. A nil executor
// selects the system executor.
func New(binary string, exec executor.CommandExecutor) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	if exec == nil {
		exec = executor.NewSystemExecutor()
	}
	return &Client{binary: binary, exec: exec}
}

// Binary returns the configured certbot path
func (c *Client) Binary() string {
	return c.binary
}

// IsInstalled checks if the certbot binary can be found and executed
func (c *Client) IsInstalled() bool {
	_, err := c.exec.LookPath(c.binary)
	return err == nil
}

// IssueArgs returns the certbot arguments used to obtain a certificate for
// domain and its www. alias through the nginx plugin.
func IssueArgs(domain, email string) []string {
	return []string{
		"certonly",
		"--nginx",
		"-m", email,
		"--agree-tos",
		"--non-interactive",
		"-d", domain,
		"-d", "www." + domain,
	}
}

// Issue obtains a certificate for domain and www.domain. Any non-zero exit
// is reported as a SUBPROCESS error carrying certbot's stderr.
func (c *Client) Issue(domain, email string) error {
	if !c.IsInstalled() {
		return errors.Subprocess(domain, "can't obtain certificate",
			fmt.Errorf("certbot not found at %s. Install it with: apt install certbot python3-certbot-nginx", c.binary))
	}

	args := IssueArgs(domain, email)
	logger.DebugFields("running certbot", logger.Fields{"binary": c.binary, "args": strings.Join(args, " ")})

	res, err := c.exec.Execute(c.binary, args...)
	if err != nil {
		return errors.Subprocess(domain, "can't obtain certificate", describeFailure(res, err))
	}
	return nil
}

// describeFailure prefers what certbot wrote to stderr and falls back to
// stdout, then to the process error itself.
func describeFailure(res *executor.Result, err error) error {
	if res == nil {
		return err
	}
	msg := strings.TrimSpace(string(res.Stderr))
	if msg == "" {
		msg = strings.TrimSpace(string(res.Stdout))
	}
	if msg == "" {
		return fmt.Errorf("exit status %d: %w", res.ExitCode, err)
	}
	return fmt.Errorf("exit status %d: %s", res.ExitCode, msg)
}
