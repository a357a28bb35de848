package site

import (
	"os"
	"path/filepath"
	"time"

	"github.com/ksyq12/makesite/internal/config"
	"github.com/ksyq12/makesite/internal/errors"
	"github.com/ksyq12/makesite/internal/logger"
	"github.com/ksyq12/makesite/internal/template"
)

// Issuer obtains a certificate for a domain and its www. alias
type Issuer interface {
	Issue(domain, email string) error
}

// Reporter receives progress as each step starts and finishes
type Reporter interface {
	Step(msg string)
	Done()
}

type nopReporter struct{}

func (nopReporter) Step(string) {}
func (nopReporter) Done()       {}

// Provisioner creates sites and switches them to HTTPS
type Provisioner struct {
	layout   Layout
	issuer   Issuer
	siteType string
	now      func() time.Time
	report   Reporter
}

// Option configures a Provisioner
type Option func(*Provisioner)

// WithClock replaces time.Now for backup timestamps
func WithClock(now func() time.Time) Option {
	return func(p *Provisioner) { p.now = now }
}

// WithReporter receives step progress
func WithReporter(r Reporter) Option {
	return func(p *Provisioner) { p.report = r }
}

// WithType selects the site type whose templates are rendered
func WithType(siteType string) Option {
	return func(p *Provisioner) { p.siteType = siteType }
}

// New creates a Provisioner rooted at paths. issuer may be nil when only
// Create is used.
func New(paths config.Paths, issuer Issuer, opts ...Option) *Provisioner {
	p := &Provisioner{
		layout:   NewLayout(paths),
		issuer:   issuer,
		siteType: config.TypeHTML,
		now:      time.Now,
		report:   nopReporter{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Layout returns the path layout the provisioner works in
func (p *Provisioner) Layout() Layout {
	return p.layout
}

// Create builds the web root, log directory and HTTP config for name and
// links the config into the enabled set. Nothing is created when any of
// the four site paths already exists. A failure midway leaves the earlier
// steps in place.
func (p *Provisioner) Create(name string) (*Site, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if !config.IsValidType(p.siteType) {
		return nil, errors.Validation("invalid site type: " + p.siteType)
	}

	s := p.layout.Site(name)
	for _, path := range s.guarded() {
		_, err := os.Lstat(path)
		if err == nil {
			return nil, errors.PathConflict(name, path)
		}
		if !os.IsNotExist(err) {
			return nil, errors.Filesystem(name, "failed to check", path, err)
		}
	}

	content, err := template.Render(p.siteType, s.templateData())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, "failed to render template", err)
	}

	p.report.Step("Creating content dir")
	if err := mkdir(name, s.WebRoot); err != nil {
		return nil, err
	}
	if err := writeFile(name, s.Index, []byte(name), 0644); err != nil {
		return nil, err
	}
	p.report.Done()

	p.report.Step("Creating log dir")
	if err := mkdir(name, s.LogDir); err != nil {
		return nil, err
	}
	p.report.Done()

	p.report.Step("Creating sites-available config")
	if err := writeFile(name, s.Available, []byte(content), 0644); err != nil {
		return nil, err
	}
	p.report.Done()

	p.report.Step("Creating symlink on sites-enabled")
	logger.DebugFields("symlink", logger.Fields{"site": name, "link": s.Enabled, "target": s.Available})
	if err := os.Symlink(s.Available, s.Enabled); err != nil {
		return nil, errors.Filesystem(name, "failed to link", s.Enabled, err)
	}
	p.report.Done()

	return s, nil
}

// EnableTLS obtains a certificate for name and replaces its enabled config
// with the HTTPS template. The replaced content is kept below the new
// config as a commented backup block. The file is only written once the
// certificate exists and the new content is fully assembled.
//
// EnableTLS is not idempotent: every run issues again and stacks another
// backup block on top.
func (p *Provisioner) EnableTLS(name, email string) (*Site, error) {
	if email == "" {
		return nil, errors.MissingParameter("--cert_email")
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	s := p.layout.Site(name)
	if _, err := os.Lstat(s.Enabled); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.UnknownSite(name)
		}
		return nil, errors.Filesystem(name, "failed to check", s.Enabled, err)
	}
	if p.issuer == nil {
		return nil, errors.Subprocess(name, "can't obtain certificate", errNoIssuer)
	}

	p.report.Step("Obtaining letsencrypt certificate")
	if err := p.issuer.Issue(name, email); err != nil {
		if errors.CodeOf(err) != errors.ErrCodeSubprocess {
			err = errors.Subprocess(name, "can't obtain certificate", err)
		}
		return nil, err
	}
	p.report.Done()

	p.report.Step("Updating sites-enabled config")
	content, err := template.RenderTLS(p.siteType, s.templateData())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, "failed to render template", err)
	}

	prior, err := os.ReadFile(s.Enabled)
	if err != nil {
		return nil, errors.Filesystem(name, "failed to read", s.Enabled, err)
	}
	content += BackupBlock(prior, p.now())

	// Write behind the symlink so sites-enabled keeps pointing at
	// sites-available.
	target, err := filepath.EvalSymlinks(s.Enabled)
	if err != nil {
		return nil, errors.Filesystem(name, "failed to resolve", s.Enabled, err)
	}
	perm := os.FileMode(0644)
	if info, err := os.Stat(target); err == nil {
		perm = info.Mode().Perm()
	}
	logger.DebugFields("rewrite config", logger.Fields{"site": name, "path": target, "bytes": len(content)})
	if err := writeFileAtomic(target, []byte(content), perm); err != nil {
		return nil, errors.Filesystem(name, "failed to write", target, err)
	}
	p.report.Done()

	s.TLS = true
	return s, nil
}
