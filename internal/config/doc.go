// Package config loads folio.json.
//
// The file sits at the project root. Every field has a default, so a
// project without folio.json still builds. FOLIO_* environment variables
// override the file (a .env file is loaded into the environment by the
// command line first).
//
//	{
//	  "site": {"title": "folio", "url": "https://example.com"},
//	  "server": {"port": 8080, "metrics": true},
//	  "build": {"output": "dist", "minify": true},
//	  "s3": {"bucket": "example-site", "prefix": "www"},
//	  "log": {"level": "debug", "format": "json"}
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
//	    return err
//	}
package config
