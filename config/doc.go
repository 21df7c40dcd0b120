// Package config builds antilogs from a YAML description.
//
// A minimal file:
//
//	level: info
//	antilogs:
//	  - type: console
//	    short_level: true
//	  - type: file
//	    path: /var/log/app.log
//	    level: warning
//	    max_size: 10485760
//	    max_backups: 5
//	    compress: true
//	  - type: remote
//	    url: https://logs.example.com/ingest
//	    async: true
//
// Load parses and validates the file. Apply registers the antilogs with
// an existing Logger; NewLogger builds a fresh one.
package config
