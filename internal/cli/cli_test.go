package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/ksyq12/makesite/internal/certbot"
	"github.com/ksyq12/makesite/internal/config"
	"github.com/ksyq12/makesite/internal/errors"
	"github.com/ksyq12/makesite/internal/executor"
)

func init() {
	// Disable color for tests
	color.NoColor = true
}

// captureStdout captures stdout during function execution
func captureStdout(f func()) string {
	old := os.Stdout
	oldColor := color.Output
	r, w, _ := os.Pipe()
	os.Stdout = w
	color.Output = w

	f()

	w.Close()
	os.Stdout = old
	color.Output = oldColor

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// setupPaths creates a fresh nginx-style layout under t.TempDir()
func setupPaths(t *testing.T) config.Paths {
	t.Helper()
	base := t.TempDir()

	paths := config.Paths{
		Available: filepath.Join(base, "sites-available"),
		Enabled:   filepath.Join(base, "sites-enabled"),
		WWW:       filepath.Join(base, "www"),
		Logs:      filepath.Join(base, "log"),
		Certs:     filepath.Join(base, "live"),
	}
	for _, dir := range []string{paths.Available, paths.Enabled, paths.WWW, paths.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	return paths
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestCreateSite(t *testing.T) {
	t.Run("creates all artifacts", func(t *testing.T) {
		paths := setupPaths(t)
		h := NewTestHelper(t, paths)

		var err error
		out := captureStdout(func() {
			err = runCreate(createCmd, []string{"example.com"})
		})
		if err != nil {
			t.Fatalf("runCreate failed: %v", err)
		}

		for _, step := range []string{
			"Creating content dir - DONE!",
			"Creating log dir - DONE!",
			"Creating sites-available config - DONE!",
			"Creating symlink on sites-enabled - DONE!",
			doneMessage,
		} {
			if !strings.Contains(out, step) {
				t.Errorf("output missing %q:\n%s", step, out)
			}
		}

		if got := readFile(t, filepath.Join(paths.WWW, "example.com", "index.html")); got != "example.com" {
			t.Errorf("index.html = %q", got)
		}
		if !strings.Contains(readFile(t, filepath.Join(paths.Available, "example.com")), "listen 80;") {
			t.Error("available config is not the HTTP template")
		}
		target, err := os.Readlink(filepath.Join(paths.Enabled, "example.com"))
		if err != nil {
			t.Fatalf("enabled link missing: %v", err)
		}
		if target != filepath.Join(paths.Available, "example.com") {
			t.Errorf("link target = %s", target)
		}
		if len(h.Executor.Calls) != 0 {
			t.Errorf("create should not run commands, got %v", h.Executor.Calls)
		}
	})

	t.Run("existing site", func(t *testing.T) {
		paths := setupPaths(t)
		NewTestHelper(t, paths)

		if err := os.MkdirAll(filepath.Join(paths.WWW, "example.com"), 0755); err != nil {
			t.Fatal(err)
		}

		var err error
		out := captureStdout(func() {
			err = createSite("example.com")
		})
		if !errors.Is(err, errors.ErrPathConflict) {
			t.Fatalf("expected PATH_CONFLICT, got %v", err)
		}
		if strings.Contains(out, doneMessage) {
			t.Error("success message printed on failure")
		}
		if _, err := os.Lstat(filepath.Join(paths.Available, "example.com")); !os.IsNotExist(err) {
			t.Error("config written despite conflict")
		}
	})

	t.Run("invalid type", func(t *testing.T) {
		paths := setupPaths(t)
		NewTestHelper(t, paths)
		loader := &MockConfigLoader{}
		deps.ConfigLoader = loader
		siteType = "php"

		err := createSite("example.com")
		if !errors.Is(err, errors.ErrValidation) {
			t.Fatalf("expected VALIDATION, got %v", err)
		}
		if !strings.Contains(err.Error(), "Valid types: html") {
			t.Errorf("error should list valid types: %v", err)
		}
		if len(loader.LoadCalls) != 0 {
			t.Error("config loaded for invalid type")
		}
	})

	t.Run("config error", func(t *testing.T) {
		NewTestHelper(t, setupPaths(t))
		deps.ConfigLoader = &MockConfigLoader{
			LoadErr: errors.Wrap(errors.ErrCodeConfig, "failed to read config", os.ErrPermission),
		}

		if err := createSite("example.com"); !errors.Is(err, errors.ErrConfig) {
			t.Fatalf("expected CONFIG, got %v", err)
		}
	})

	t.Run("json output", func(t *testing.T) {
		paths := setupPaths(t)
		NewTestHelper(t, paths)
		jsonOutput = true

		var err error
		out := captureStdout(func() {
			err = createSite("example.com")
		})
		if err != nil {
			t.Fatalf("createSite failed: %v", err)
		}

		var result SiteResult
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, out)
		}
		if !result.Success || result.Action != "create" || result.Site == nil {
			t.Fatalf("unexpected result: %+v", result)
		}
		if result.Site.WebRoot != filepath.Join(paths.WWW, "example.com") || result.Site.TLS {
			t.Errorf("unexpected site: %+v", result.Site)
		}
	})
}

func TestEnableTLS(t *testing.T) {
	fixed := time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)

	setup := func(t *testing.T) (config.Paths, *TestHelper) {
		paths := setupPaths(t)
		h := NewTestHelper(t, paths)
		deps.Clock = func() time.Time { return fixed }
		captureStdout(func() {
			if err := createSite("example.com"); err != nil {
				t.Fatalf("createSite failed: %v", err)
			}
		})
		return paths, h
	}

	t.Run("switches to https", func(t *testing.T) {
		paths, h := setup(t)
		prior := readFile(t, filepath.Join(paths.Available, "example.com"))
		certEmail = "admin@example.com"

		var err error
		out := captureStdout(func() {
			err = runEnableTLS(enableTLSCmd, []string{"example.com"})
		})
		if err != nil {
			t.Fatalf("runEnableTLS failed: %v", err)
		}

		if len(h.Executor.Calls) != 1 {
			t.Fatalf("expected 1 certbot call, got %d", len(h.Executor.Calls))
		}
		call := h.Executor.Calls[0]
		if call.Name != certbot.DefaultBinary {
			t.Errorf("ran %s, want %s", call.Name, certbot.DefaultBinary)
		}
		if want := certbot.IssueArgs("example.com", "admin@example.com"); !reflect.DeepEqual(call.Args, want) {
			t.Errorf("args = %v, want %v", call.Args, want)
		}

		content := readFile(t, filepath.Join(paths.Enabled, "example.com"))
		if !strings.Contains(content, "listen 443 ssl http2;") {
			t.Error("enabled config is not the HTTPS template")
		}
		header := "\n\n#=== Backup - 2024-03-05 07:08:09 ===\n"
		if !strings.Contains(content, header) {
			t.Errorf("backup header missing:\n%s", content)
		}
		firstLine := strings.SplitN(prior, "\n", 2)[0]
		if !strings.Contains(content, "#"+firstLine) {
			t.Error("prior config not kept as comment")
		}
		if _, err := os.Readlink(filepath.Join(paths.Enabled, "example.com")); err != nil {
			t.Error("enabled entry should still be a symlink")
		}
		for _, want := range []string{"Obtaining letsencrypt certificate - DONE!", "Updating sites-enabled config - DONE!", doneMessage} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("missing email", func(t *testing.T) {
		paths, h := setup(t)
		loader := &MockConfigLoader{Cfg: h.Config}
		deps.ConfigLoader = loader
		before := readFile(t, filepath.Join(paths.Available, "example.com"))

		err := enableTLS("example.com")
		if !errors.Is(err, errors.ErrMissingParameter) {
			t.Fatalf("expected MISSING_PARAMETER, got %v", err)
		}
		if !strings.Contains(err.Error(), "--cert_email") {
			t.Errorf("error should name the flag: %v", err)
		}
		if len(h.Executor.Calls) != 0 || len(loader.LoadCalls) != 0 {
			t.Error("nothing should run before the email check")
		}
		if readFile(t, filepath.Join(paths.Available, "example.com")) != before {
			t.Error("config changed")
		}
	})

	t.Run("unknown site", func(t *testing.T) {
		_, h := setup(t)
		certEmail = "admin@example.com"

		var err error
		captureStdout(func() {
			err = enableTLS("other.com")
		})
		if !errors.Is(err, errors.ErrUnknownSite) {
			t.Fatalf("expected UNKNOWN_SITE, got %v", err)
		}
		if len(h.Executor.Calls) != 0 {
			t.Error("certbot should not run for an unknown site")
		}
	})

	t.Run("certbot failure leaves config untouched", func(t *testing.T) {
		paths, h := setup(t)
		certEmail = "admin@example.com"
		h.Executor.ExecuteFunc = func(name string, args ...string) (*executor.Result, error) {
			return &executor.Result{Stderr: []byte("Some challenges have failed."), ExitCode: 1}, os.ErrInvalid
		}
		before := readFile(t, filepath.Join(paths.Available, "example.com"))

		var err error
		out := captureStdout(func() {
			err = enableTLS("example.com")
		})
		if !errors.Is(err, errors.ErrSubprocess) {
			t.Fatalf("expected SUBPROCESS, got %v", err)
		}
		if !strings.Contains(err.Error(), "Some challenges have failed.") {
			t.Errorf("error should carry certbot stderr: %v", err)
		}
		if readFile(t, filepath.Join(paths.Available, "example.com")) != before {
			t.Error("config changed after failed issuance")
		}
		if strings.Contains(out, doneMessage) {
			t.Error("success message printed on failure")
		}
	})

	t.Run("certbot not installed", func(t *testing.T) {
		_, h := setup(t)
		certEmail = "admin@example.com"
		h.Executor.LookPathFunc = func(file string) (string, error) {
			return "", os.ErrNotExist
		}

		var err error
		captureStdout(func() {
			err = enableTLS("example.com")
		})
		if !errors.Is(err, errors.ErrSubprocess) {
			t.Fatalf("expected SUBPROCESS, got %v", err)
		}
		if len(h.Executor.Calls) != 0 {
			t.Error("certbot should not be executed when missing")
		}
	})
}

func TestRootDispatch(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantTLS   bool
		wantCalls int
		wantCode  errors.ErrorCode
	}{
		{"combined form creates", []string{"example.com"}, false, 0, ""},
		{"create subcommand", []string{"create", "example.com", "--type", "html"}, false, 0, ""},
		{"combined form with get_cert", []string{"example.com", "--get_cert", "--cert_email", "a@example.com"}, true, 1, ""},
		{"enable_tls subcommand", []string{"enable_tls", "example.com", "--cert_email", "a@example.com"}, true, 1, ""},
		{"enable-tls alias", []string{"enable-tls", "example.com", "--cert_email", "a@example.com"}, true, 1, ""},
		{"get_cert without email", []string{"example.com", "--get_cert"}, false, 0, errors.ErrCodeMissingParameter},
		{"invalid type", []string{"create", "new.com", "--type", "php"}, false, 0, errors.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := setupPaths(t)
			h := NewTestHelper(t, paths)

			// enable_tls needs an existing site; create needs a fresh one
			if tt.wantTLS || tt.wantCode == errors.ErrCodeMissingParameter {
				captureStdout(func() {
					if err := createSite("example.com"); err != nil {
						t.Fatalf("createSite failed: %v", err)
					}
				})
			}
			resetFlags()

			rootCmd.SetArgs(tt.args)
			t.Cleanup(func() { rootCmd.SetArgs(nil) })

			var err error
			captureStdout(func() {
				err = rootCmd.Execute()
			})

			if tt.wantCode != "" {
				if errors.CodeOf(err) != tt.wantCode {
					t.Fatalf("expected %s, got %v", tt.wantCode, err)
				}
				if errors.ExitCode(err) != 1 {
					t.Errorf("exit code = %d, want 1", errors.ExitCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if len(h.Executor.Calls) != tt.wantCalls {
				t.Errorf("certbot calls = %d, want %d", len(h.Executor.Calls), tt.wantCalls)
			}
			content := readFile(t, filepath.Join(paths.Available, "example.com"))
			if got := strings.Contains(content, "listen 443 ssl"); got != tt.wantTLS {
				t.Errorf("TLS config = %v, want %v", got, tt.wantTLS)
			}
		})
	}
}

func TestRunList(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		paths := setupPaths(t)
		NewTestHelper(t, paths)
		captureStdout(func() {
			for _, name := range []string{"b.com", "a.com"} {
				if err := createSite(name); err != nil {
					t.Fatalf("createSite failed: %v", err)
				}
			}
		})

		var err error
		out := captureStdout(func() {
			err = runList(listCmd, nil)
		})
		if err != nil {
			t.Fatalf("runList failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected header, separator and 2 rows, got:\n%s", out)
		}
		if !strings.HasPrefix(lines[2], "a.com") || !strings.HasPrefix(lines[3], "b.com") {
			t.Errorf("rows not sorted:\n%s", out)
		}
	})

	t.Run("empty", func(t *testing.T) {
		NewTestHelper(t, setupPaths(t))

		out := captureStdout(func() {
			if err := runList(listCmd, nil); err != nil {
				t.Fatalf("runList failed: %v", err)
			}
		})
		if !strings.Contains(out, "No sites") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		paths := setupPaths(t)
		NewTestHelper(t, paths)
		captureStdout(func() {
			if err := createSite("example.com"); err != nil {
				t.Fatalf("createSite failed: %v", err)
			}
		})
		jsonOutput = true

		out := captureStdout(func() {
			if err := runList(listCmd, nil); err != nil {
				t.Fatalf("runList failed: %v", err)
			}
		})

		var statuses []map[string]interface{}
		if err := json.Unmarshal([]byte(out), &statuses); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, out)
		}
		if len(statuses) != 1 || statuses[0]["name"] != "example.com" || statuses[0]["enabled"] != true {
			t.Errorf("unexpected statuses: %v", statuses)
		}
	})
}

func TestRunDoctor(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		paths := setupPaths(t)
		h := NewTestHelper(t, paths)
		if err := os.MkdirAll(paths.Certs, 0755); err != nil {
			t.Fatal(err)
		}
		h.Executor.ExecuteFunc = func(name string, args ...string) (*executor.Result, error) {
			return &executor.Result{Stderr: []byte("nginx version: nginx/1.24.0\n")}, nil
		}
		captureStdout(func() {
			if err := createSite("example.com"); err != nil {
				t.Fatalf("createSite failed: %v", err)
			}
		})
		jsonOutput = true

		var err error
		out := captureStdout(func() {
			err = runDoctor(doctorCmd, nil)
		})
		if err != nil {
			t.Fatalf("runDoctor failed: %v\n%s", err, out)
		}

		var report DoctorReport
		if err := json.Unmarshal([]byte(out), &report); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if report.Errors() != 0 {
			t.Errorf("expected no errors, got %+v", report)
		}
		found := false
		for _, c := range report.SystemRequirements {
			if strings.Contains(c.Message, "1.24.0") {
				found = true
			}
		}
		if !found {
			t.Error("nginx version not extracted")
		}
		if len(report.Sites) != 1 || report.Sites[0].Checks[0].Message != "enabled, http" {
			t.Errorf("unexpected sites: %+v", report.Sites)
		}
	})

	t.Run("problems", func(t *testing.T) {
		paths := setupPaths(t)
		h := NewTestHelper(t, paths)
		deps.RootChecker = &MockRootChecker{Root: false}
		h.Executor.LookPathFunc = func(file string) (string, error) {
			return "", os.ErrNotExist
		}
		if err := os.Remove(paths.Logs); err != nil {
			t.Fatal(err)
		}

		var err error
		out := captureStdout(func() {
			err = runDoctor(doctorCmd, nil)
		})
		if err == nil {
			t.Fatal("expected doctor to report problems")
		}
		for _, want := range []string{
			"ERROR: nginx not installed",
			"WARNING: certbot not found",
			"WARNING: Not running as root",
			"ERROR: log root missing",
			"WARNING: certificate root missing",
			"No sites found",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})
}
