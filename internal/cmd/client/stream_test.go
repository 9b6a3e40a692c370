package client

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// startHTTPStub serves canned JSON per path and records the last request.
func startHTTPStub(t *testing.T, status int, body any) (base BaseURLFunc, last *http.Request, seen *map[string]any) {
	t.Helper()
	lastReq := &http.Request{}
	payload := map[string]any{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*lastReq = *r
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return func() string { return srv.URL }, lastReq, &payload
}

func TestStreamCreatePrintsAssignedID(t *testing.T) {
	base, last, seen := startHTTPStub(t, http.StatusCreated, map[string]any{"id": 7})

	cmd := newStreamCreateCommand(base)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--sender", "GSENDER", "--recipient", "GRECIPIENT", "--deposit", "1000", "--rate", "1", "--end", "1000"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(buf.String(), `"id": 7`) {
		t.Fatalf("expected id in output, got: %s", buf.String())
	}
	// the caller defaults to the sender when --caller is not given
	if got := last.Header.Get(callerHeader); got != "GSENDER" {
		t.Fatalf("caller header: want GSENDER, got %q", got)
	}
	if (*seen)["deposit_amount"] != float64(1000) || (*seen)["rate_per_second"] != float64(1) {
		t.Fatalf("unexpected request body: %v", *seen)
	}
}

func TestStreamWithdrawPrintsAmount(t *testing.T) {
	base, last, _ := startHTTPStub(t, http.StatusOK, map[string]any{"id": 0, "amount": 250})

	cmd := newStreamWithdrawCommand(base)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	if err := cmd.Flags().Set("caller", "GRECIPIENT"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	cmd.SetArgs([]string{"--id", "0"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(buf.String(), `"amount": 250`) {
		t.Fatalf("expected amount in output, got: %s", buf.String())
	}
	if got := last.Header.Get(callerHeader); got != "GRECIPIENT" {
		t.Fatalf("caller header: want GRECIPIENT, got %q", got)
	}
}

func TestStreamCommandsSurfaceServerErrors(t *testing.T) {
	base, _, _ := startHTTPStub(t, http.StatusConflict, map[string]string{
		"error": "withdraw: INVALID_STATE_TRANSITION: stream 0 is cancelled",
		"code":  "INVALID_STATE_TRANSITION",
	})

	cmd := newStreamWithdrawCommand(base)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--id", "0"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "INVALID_STATE_TRANSITION") {
		t.Fatalf("expected error code in message, got: %v", err)
	}
}

func TestStreamPausePrintsOK(t *testing.T) {
	base, _, seen := startHTTPStub(t, http.StatusNoContent, nil)

	cmd := newStreamPauseCommand(base)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	if err := cmd.Flags().Set("caller", "GSENDER"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	cmd.SetArgs([]string{"--id", "3"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(buf.String(), `"status": "ok"`) {
		t.Fatalf("expected ok status, got: %s", buf.String())
	}
	if (*seen)["id"] != float64(3) {
		t.Fatalf("unexpected request body: %v", *seen)
	}
}
