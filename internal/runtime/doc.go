// Package runtime wires storage, config, the stream ledger, and the token
// bank into a single-node VestFlow instance. It exposes Open/Close, a basic
// health check, and accessors used by higher-level services.
package runtime
