// Package template renders nginx server blocks from embedded Go templates.
//
// Each site type has two templates under nginx/:
//
//	nginx/html.tmpl      HTTP-only server block on port 80
//	nginx/html_tls.tmpl  HTTPS server block on 443 (http2) plus a port 80
//	                     block answering 301 https://<name>$request_uri
//
// Both carry the same security headers; the TLS variant adds
// Strict-Transport-Security and the certificate, key and chain paths.
//
// # Rendering
//
//	content, err := template.Render(config.TypeHTML, template.Data{
//	    Name:      "example.com",
//	    Root:      "/var/www/example.com",
//	    AccessLog: "/var/log/nginx/example.com/access.log",
//	    ErrorLog:  "/var/log/nginx/example.com/error.log",
//	})
//
// Data is a typed record rather than free-form text substitution. Every slot
// a template uses must be set; rendering fails before producing output
// otherwise.
package template
