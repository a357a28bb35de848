package template

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed nginx/*.tmpl
var nginxTemplates embed.FS

// Data is everything a server block is rendered from
type Data struct {
	Name      string
	Root      string
	AccessLog string
	ErrorLog  string

	// Only read by the TLS variant
	SSLCert  string
	SSLKey   string
	SSLChain string
}

// Render renders the HTTP-only server block for siteType
func Render(siteType string, data Data) (string, error) {
	if err := data.check(false); err != nil {
		return "", err
	}
	return execute(siteType, data)
}

// RenderTLS renders the HTTPS server block for siteType followed by the
// port 80 block redirecting to it
func RenderTLS(siteType string, data Data) (string, error) {
	if err := data.check(true); err != nil {
		return "", err
	}
	return execute(siteType+"_tls", data)
}

// check rejects data with empty slots so a half-filled config is never
// written out
func (d Data) check(tls bool) error {
	slots := []struct{ name, value string }{
		{"Name", d.Name},
		{"Root", d.Root},
		{"AccessLog", d.AccessLog},
		{"ErrorLog", d.ErrorLog},
	}
	if tls {
		slots = append(slots,
			struct{ name, value string }{"SSLCert", d.SSLCert},
			struct{ name, value string }{"SSLKey", d.SSLKey},
			struct{ name, value string }{"SSLChain", d.SSLChain},
		)
	}
	for _, s := range slots {
		if s.value == "" {
			return fmt.Errorf("template data: %s is empty", s.name)
		}
	}
	return nil
}

func execute(name string, data Data) (string, error) {
	tmplPath := fmt.Sprintf("nginx/%s.tmpl", name)

	content, err := nginxTemplates.ReadFile(tmplPath)
	if err != nil {
		return "", fmt.Errorf("template not found: %s", tmplPath)
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	return buf.String(), nil
}

// Available returns the site types that have templates
func Available() []string {
	entries, err := nginxTemplates.ReadDir("nginx")
	if err != nil {
		return nil
	}
	var types []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, "_tls.tmpl") {
			continue
		}
		types = append(types, strings.TrimSuffix(name, ".tmpl"))
	}
	return types
}
