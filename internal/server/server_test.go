package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"kite/internal/journal"
	"kite/internal/util"
)

func setupTestServer(t *testing.T, store *journal.Store) *Server {
	t.Helper()
	return New(util.Configuration{}, store)
}

func do(t *testing.T, srv *Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func createSession(t *testing.T, srv *Server) string {
	t.Helper()
	resp, body := do(t, srv, "POST", "/v1/sessions", "")
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.ID == "" {
		t.Fatalf("expected a session id, got %s", body)
	}
	return created.ID
}

func TestSessionFlow(t *testing.T) {
	srv := setupTestServer(t, nil)
	id := createSession(t, srv)
	base := "/v1/sessions/" + id

	cases := []struct {
		source  string
		status  int
		typ     string
		value   string
		kind    string
		pending int
	}{
		{"let a = 5;", 200, "VOID", "void", "", 0},
		{"a + 1", 200, "INTEGER", "6", "", 0},
		{`"ab" + "cd"`, 200, "STRING", `"abcd"`, "", 0},
		{"(a *", 422, "", "", "BRACKET_MISMATCH", 3},
		{"2)", 200, "INTEGER", "10", "", 0},
		{"5 / 0", 422, "", "", "DIVIDE_BY_ZERO", 0},
		{"b", 422, "", "", "VARIABLE_NOT_FOUND", 0},
	}

	for _, c := range cases {
		t.Run(c.source, func(t *testing.T) {
			body, _ := json.Marshal(map[string]string{"source": c.source})
			resp, data := do(t, srv, "POST", base+"/eval", string(body))
			if resp.StatusCode != c.status {
				t.Fatalf("expected %d, got %d: %s", c.status, resp.StatusCode, data)
			}

			var result struct {
				Type    string `json:"type"`
				Value   string `json:"value"`
				Pending int    `json:"pending"`
				Error   struct {
					Kind    string `json:"kind"`
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.Unmarshal(data, &result); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Type != c.typ || result.Value != c.value || result.Error.Kind != c.kind {
				t.Errorf("expected %s %s %s, got %s %s %s",
					c.typ, c.value, c.kind, result.Type, result.Value, result.Error.Kind)
			}
			if result.Pending != c.pending {
				t.Errorf("expected %d pending tokens, got %d", c.pending, result.Pending)
			}
		})
	}

	resp, data := do(t, srv, "GET", base+"/vars", "")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var vars []variableResponse
	if err := json.Unmarshal(data, &vars); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vars) != 1 || vars[0].Name != "a" || vars[0].Value != "5" || vars[0].Type != "INTEGER" {
		t.Errorf("unexpected variables %+v", vars)
	}

	if resp, _ := do(t, srv, "POST", base+"/reset", ""); resp.StatusCode != 204 {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
	_, data = do(t, srv, "GET", base+"/vars", "")
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("expected no variables after reset, got %s", data)
	}

	if resp, _ := do(t, srv, "DELETE", base, ""); resp.StatusCode != 204 {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
	if resp, _ := do(t, srv, "POST", base+"/eval", `{"source":"1"}`); resp.StatusCode != 404 {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := setupTestServer(t, nil)
	first := createSession(t, srv)
	second := createSession(t, srv)

	do(t, srv, "POST", "/v1/sessions/"+first+"/eval", `{"source":"let x = 1;"}`)
	resp, data := do(t, srv, "POST", "/v1/sessions/"+second+"/eval", `{"source":"x"}`)
	if resp.StatusCode != 422 || !strings.Contains(string(data), "VARIABLE_NOT_FOUND") {
		t.Errorf("expected x to be unknown in another session, got %d: %s", resp.StatusCode, data)
	}
}

func TestBadRequests(t *testing.T) {
	srv := setupTestServer(t, nil)
	id := createSession(t, srv)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown session eval", "POST", "/v1/sessions/nope/eval", `{"source":"1"}`, 404},
		{"unknown session vars", "GET", "/v1/sessions/nope/vars", "", 404},
		{"unknown session reset", "POST", "/v1/sessions/nope/reset", "", 404},
		{"unknown session delete", "DELETE", "/v1/sessions/nope", "", 404},
		{"malformed json", "POST", "/v1/sessions/" + id + "/eval", `{"source":`, 400},
		{"missing source", "POST", "/v1/sessions/" + id + "/eval", `{"code":"1"}`, 400},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp, data := do(t, srv, c.method, c.path, c.body)
			if resp.StatusCode != c.status {
				t.Errorf("expected %d, got %d: %s", c.status, resp.StatusCode, data)
			}
		})
	}
}

func TestJournaledSession(t *testing.T) {
	ctx := testContext(t)
	store, err := journal.Open(ctx, journal.SQLite, filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	srv := setupTestServer(t, store)
	id := createSession(t, srv)
	do(t, srv, "POST", "/v1/sessions/"+id+"/eval", `{"source":"let a = 2;"}`)
	do(t, srv, "POST", "/v1/sessions/"+id+"/eval", `{"source":"a * 21"}`)

	entries, err := store.Entries(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Result != "42" {
		t.Errorf("expected 42, got %s", entries[1].Result)
	}
}
