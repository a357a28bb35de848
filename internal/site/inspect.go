package site

import (
	"bufio"
	"bytes"
	"os"
	"sort"
	"strings"

	"github.com/ksyq12/makesite/internal/errors"
)

// Status reports which artifacts of a site are present
type Status struct {
	Name          string `json:"name"`
	Available     bool   `json:"available"`
	Enabled       bool   `json:"enabled"`
	WebRoot       bool   `json:"web_root"`
	LogDir        bool   `json:"log_dir"`
	TLS           bool   `json:"tls"`
	BackupBlocks  int    `json:"backup_blocks"`
	EnabledTarget string `json:"enabled_target,omitempty"`
}

// List returns the site names found in the available directory, sorted.
// Hidden files are skipped.
func (p *Provisioner) List() ([]string, error) {
	dir := p.layout.paths.Available
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.Filesystem("", "failed to read", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Inspect reports the state of name's artifacts without changing anything
func (p *Provisioner) Inspect(name string) (*Status, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	s := p.layout.Site(name)

	st := &Status{
		Name:      name,
		Available: exists(s.Available),
		WebRoot:   isDir(s.WebRoot),
		LogDir:    isDir(s.LogDir),
	}
	if _, err := os.Lstat(s.Enabled); err == nil {
		st.Enabled = true
		if target, err := os.Readlink(s.Enabled); err == nil {
			st.EnabledTarget = target
		}
	}

	// nginx reads the enabled file; fall back to the available copy
	configPath := s.Enabled
	if !st.Enabled {
		configPath = s.Available
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return nil, errors.Filesystem(name, "failed to read", configPath, err)
	}
	st.TLS, st.BackupBlocks = scanConfig(data)
	return st, nil
}

// scanConfig looks for an active TLS listener and counts backup headers at
// any nesting depth. Commented lines never count as a listener.
func scanConfig(data []byte) (tls bool, backups int) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") && strings.HasPrefix(strings.TrimLeft(line, "#"), "=== Backup - ") {
			backups++
			continue
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "listen") && strings.Contains(trimmed, " ssl") {
			tls = true
		}
	}
	return tls, backups
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
