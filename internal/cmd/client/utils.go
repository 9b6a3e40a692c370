package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// callerHeader carries the acting address on mutating requests.
const callerHeader = "X-Vestflow-Caller"

// callerFrom resolves the acting address from --caller or VESTFLOW_CALLER.
func callerFrom(cmd *cobra.Command) string {
	if caller, _ := cmd.Flags().GetString("caller"); caller != "" {
		return caller
	}
	return os.Getenv("VESTFLOW_CALLER")
}

// postJSON issues a POST with a JSON body and decodes a JSON response into
// out when the status is 2xx. Non-2xx responses become errors carrying the
// server's error body.
func postJSON(ctx context.Context, url, caller string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set(callerHeader, caller)
	}
	return doJSON(req, out)
}

// getJSON issues a GET and decodes a JSON response into out.
func getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return doJSON(req, out)
}

func doJSON(req *http.Request, out any) error {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// errorFromResponse surfaces the server's error body, falling back to the
// HTTP status line.
func errorFromResponse(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		if body.Code != "" {
			return fmt.Errorf("%s: %s", body.Code, body.Error)
		}
		return fmt.Errorf("%s", body.Error)
	}
	return fmt.Errorf("server returned %s", resp.Status)
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
