// Package config manages the slhttpd emulator configuration file.
//
// The file is YAML and lives in the OS configuration directory unless a path
// is given explicitly:
//   - Linux: $XDG_CONFIG_HOME/slhttpd/config.yaml or $HOME/.config/slhttpd/config.yaml
//   - macOS: $HOME/.config/slhttpd/config.yaml
//   - Windows: %LOCALAPPDATA%\slhttpd\config.yaml
//
// It holds the emulated processor's HTTP server settings and the demo tokens
// the emulator registers at startup:
//
//	version: 1
//	server:
//	  port: 8080
//	  hostname: slhttpd
//	  page_dir: ./pages
//	  rom_pages: true
//	  mdns: true
//	get_tokens:
//	  - id: UP
//	    source: uptime
//	  - id: LD
//	    source: stored
//	post_tokens:
//	  - id: LD
//	    sink: store
//
// A missing file yields Default(). Save writes atomically through a
// temporary file.
package config
