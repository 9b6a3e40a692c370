// Package client contains Cobra CLI commands for VestFlow.
//
// Commands speak to a running server over its REST API. The base URL comes
// from the VESTFLOW_HTTP environment variable (default http://127.0.0.1:8080)
// and the acting address from --caller or VESTFLOW_CALLER.
package client
