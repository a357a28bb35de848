// Package site provisions static sites for nginx.
//
// A site named example.com owns four paths derived from the configured
// roots:
//
//	sites-available/example.com   HTTP server block
//	sites-enabled/example.com     symlink to the above
//	www/example.com/              web root holding a placeholder index.html
//	log/example.com/              access and error logs, written by nginx
//
// # Lifecycle
//
//	nonexistent --Create--> http-only --EnableTLS--> https-enabled
//
// There is no way back and nothing is ever deleted. Create refuses to touch
// anything when one of the four paths already exists, but it does not roll
// back when a later step fails. EnableTLS can run again on an HTTPS site;
// each run issues a fresh certificate and stacks another commented backup of
// the replaced config at the end of the file.
//
// # Usage
//
//	issuer := certbot.New(cfg.Certbot, nil)
//	p := site.New(cfg.Paths, issuer)
//
//	if _, err := p.Create("example.com"); err != nil {
//	    return err
//	}
//	if _, err := p.EnableTLS("example.com", "admin@example.com"); err != nil {
//	    return err
//	}
//
// Nothing in this package reloads nginx.
package site
