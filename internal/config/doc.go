// Package config provides configuration parsing for the urlkit service.
//
// The configuration is stored in urlkit.json. Every field is optional;
// missing fields take the defaults returned by New.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "trusted_proxies": ["10.0.0.0/8"]
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "path": "/metrics",
//	    "namespace": "urlkit"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracer_name": "urlkit"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "default_base": "https://example.com/"
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
