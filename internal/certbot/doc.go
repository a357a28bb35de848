// Package certbot obtains Let's Encrypt certificates by running the
// certbot binary through its nginx plugin.
//
// # Prerequisites
//
// Certbot and its nginx plugin must be installed on the server:
//
//	# Ubuntu/Debian
//	sudo apt install certbot python3-certbot-nginx
//
// # Usage
//
//	client := certbot.New("/usr/bin/certbot", nil)
//	if err := client.Issue("example.com", "admin@example.com"); err != nil {
//	    return err
//	}
//
// Issue runs, non-interactively:
//
//	certbot certonly --nginx -m admin@example.com --agree-tos \
//	    --non-interactive -d example.com -d www.example.com
//
// Only the exit status and captured output are consumed. certbot is trusted
// to be safe to re-invoke; no locking or retry happens here.
//
// # Certificate Paths
//
// Certificates land in certbot's live directory, which the generated nginx
// config reads:
//
//	/etc/letsencrypt/live/{domain}/fullchain.pem  (certificate chain)
//	/etc/letsencrypt/live/{domain}/privkey.pem    (private key)
//	/etc/letsencrypt/live/{domain}/chain.pem      (intermediates, for OCSP)
//
// # Testing
//
// Pass an executor.MockExecutor to New to observe or fake certbot runs.
package certbot
