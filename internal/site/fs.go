package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ksyq12/makesite/internal/errors"
	"github.com/ksyq12/makesite/internal/logger"
)

// BackupTimeFormat is the timestamp layout in backup block headers
const BackupTimeFormat = "2006-01-02 15:04:05"

var errNoIssuer = fmt.Errorf("no certificate issuer configured")

// BackupBlock comments out prior line by line under a timestamped header.
// Line endings are kept as they were, so a file without a trailing newline
// yields a block without one.
func BackupBlock(prior []byte, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n\n#=== Backup - %s ===\n", at.Format(BackupTimeFormat))
	for _, line := range strings.SplitAfter(string(prior), "\n") {
		if line == "" {
			continue
		}
		b.WriteString("#")
		b.WriteString(line)
	}
	return b.String()
}

// mkdir creates a single directory; the parent must exist
func mkdir(site, path string) error {
	logger.DebugFields("mkdir", logger.Fields{"site": site, "path": path})
	if err := os.Mkdir(path, 0755); err != nil {
		return errors.Filesystem(site, "failed to create", path, err)
	}
	return nil
}

func writeFile(site, path string, data []byte, perm os.FileMode) error {
	logger.DebugFields("write", logger.Fields{"site": site, "path": path, "bytes": len(data)})
	if err := os.WriteFile(path, data, perm); err != nil {
		return errors.Filesystem(site, "failed to write", path, err)
	}
	return nil
}

// writeFileAtomic replaces path through a temp file in the same directory,
// so readers see either the old or the new content.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
