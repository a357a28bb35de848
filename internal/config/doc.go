// Package config holds the filesystem layout makesite provisions into.
//
// Every path the tool touches is derived from five roots plus the location
// of the certbot binary. The defaults match a Debian-style nginx install:
//
//	certbot: /usr/bin/certbot
//	paths:
//	  available: /etc/nginx/sites-available
//	  enabled: /etc/nginx/sites-enabled
//	  www: /var/www
//	  logs: /var/log/nginx
//	  certs: /etc/letsencrypt/live
//
// # Loading
//
// The file is looked up from --config, then $MAKESITE_CONFIG, then
// /etc/makesite/config.yaml. Keys left out of the file keep their defaults,
// so a config overriding only the web root is a single line. A missing
// default file is not an error; a missing file that was named explicitly is.
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Paths.WWW)
//
// Tests build a Config directly and point the roots at t.TempDir().
//
// # Site Types
//
// html is the only site type: a static web root served with try_files.
package config
