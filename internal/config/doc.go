// Package config holds VestFlow's server configuration: where data lives,
// how the WAL is synced, which address the HTTP API binds, and optional
// bootstrap values for one-time engine initialization.
//
// Configuration is layered: built-in defaults, then an optional JSON or YAML
// file, then VESTFLOW_* environment variables. Later layers win.
package config
