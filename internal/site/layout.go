package site

import (
	"path/filepath"
	"strings"

	"github.com/ksyq12/makesite/internal/certbot"
	"github.com/ksyq12/makesite/internal/config"
	"github.com/ksyq12/makesite/internal/errors"
	"github.com/ksyq12/makesite/internal/template"
)

// Site describes the artifacts belonging to one site
type Site struct {
	Name      string `json:"name"`
	Available string `json:"available"`
	Enabled   string `json:"enabled"`
	WebRoot   string `json:"web_root"`
	Index     string `json:"index"`
	LogDir    string `json:"log_dir"`
	AccessLog string `json:"-"`
	ErrorLog  string `json:"-"`
	TLS       bool   `json:"tls"`

	Cert certbot.Cert `json:"-"`
}

// Layout derives every path of a site from the configured roots
type Layout struct {
	paths config.Paths
}

// NewLayout wraps the configured roots
func NewLayout(paths config.Paths) Layout {
	return Layout{paths: paths}
}

// Site returns the derived paths for name. The name must already have
// passed ValidateName.
func (l Layout) Site(name string) *Site {
	webRoot := filepath.Join(l.paths.WWW, name)
	logDir := filepath.Join(l.paths.Logs, name)
	return &Site{
		Name:      name,
		Available: filepath.Join(l.paths.Available, name),
		Enabled:   filepath.Join(l.paths.Enabled, name),
		WebRoot:   webRoot,
		Index:     filepath.Join(webRoot, "index.html"),
		LogDir:    logDir,
		AccessLog: filepath.Join(logDir, "access.log"),
		ErrorLog:  filepath.Join(logDir, "error.log"),
		Cert:      certbot.Paths(l.paths.Certs, name),
	}
}

// guarded lists the paths whose existence blocks Create
func (s *Site) guarded() []string {
	return []string{s.Available, s.Enabled, s.WebRoot, s.LogDir}
}

// templateData fills the typed template record for s
func (s *Site) templateData() template.Data {
	return template.Data{
		Name:      s.Name,
		Root:      s.WebRoot,
		AccessLog: s.AccessLog,
		ErrorLog:  s.ErrorLog,
		SSLCert:   s.Cert.CertPath,
		SSLKey:    s.Cert.KeyPath,
		SSLChain:  s.Cert.ChainPath,
	}
}

// ValidateName rejects names that are empty or would escape the roots once
// joined. Hostname syntax is otherwise left to nginx and the filesystem.
func ValidateName(name string) error {
	if name == "" {
		return errors.Validation("site name cannot be empty")
	}
	if name == "." || name == ".." {
		return errors.Validation("site name cannot be . or ..")
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return errors.Validation("site name cannot contain path separators: " + name)
	}
	return nil
}
