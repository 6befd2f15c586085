package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
)

// upstreamStub records requests and replies with a fixed JSON body.
type upstreamStub struct {
	requests atomic.Int64
	lastPath atomic.Value // string, path + raw query
	status   int
	body     string
}

func newUpstreamStub(status int, body string) (*upstreamStub, *httptest.Server) {
	stub := &upstreamStub{status: status, body: body}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.requests.Add(1)
		stub.lastPath.Store(r.URL.RequestURI())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(stub.status)
		w.Write([]byte(stub.body))
	}))
	return stub, srv
}

func (s *upstreamStub) path() string {
	p, _ := s.lastPath.Load().(string)
	return p
}

func TestCallTool_ValidationRejectsBeforeNetwork(t *testing.T) {
	stub, srv := newUpstreamStub(http.StatusOK, `{}`)
	defer srv.Close()

	h := testHandler(testConfig(srv.URL))

	cases := []struct {
		tool string
		args map[string]interface{}
		want string
	}{
		{"list_entities", map[string]interface{}{}, "entity parameter is required"},
		{"get_entity", map[string]interface{}{"entity": "characters"}, "id parameter is required"},
		{"get_entity", map[string]interface{}{"entity": "characters", "id": "42"}, "id parameter must be a number"},
		{"search_by_name", map[string]interface{}{"entity": "characters"}, "name parameter is required"},
		{"raw_get", map[string]interface{}{}, "path parameter is required"},
		{"list_entities", map[string]interface{}{"entity": "dragons"}, "unsupported value"},
	}

	for _, tc := range cases {
		result := callTool(t, h.MCPServer(), tc.tool, tc.args)
		if !result.IsError {
			t.Errorf("%s(%v): expected error result", tc.tool, tc.args)
		}
		if text := resultText(t, result); !strings.Contains(text, tc.want) {
			t.Errorf("%s(%v): expected %q in %q", tc.tool, tc.args, tc.want, text)
		}
	}

	if n := stub.requests.Load(); n != 0 {
		t.Errorf("expected no upstream requests, got %d", n)
	}
}

func TestCallTool_ListCampaigns(t *testing.T) {
	stub, srv := newUpstreamStub(http.StatusOK, `{"data":[{"id":1,"name":"Thedas"}]}`)
	defer srv.Close()

	h := testHandler(testConfig(srv.URL))
	result := callTool(t, h.MCPServer(), "list_campaigns", map[string]interface{}{})

	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if stub.path() != "/campaigns" {
		t.Errorf("unexpected upstream path: %s", stub.path())
	}
}

func TestCallTool_GetEntity_PathShape(t *testing.T) {
	stub, srv := newUpstreamStub(http.StatusOK, `{"data":{"id":42,"name":"Morrigan"}}`)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Kanka.CampaignID = "7"
	h := testHandler(cfg)

	result := callTool(t, h.MCPServer(), "get_entity", map[string]interface{}{
		"entity": "characters",
		"id":     42,
	})

	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if stub.path() != "/campaigns/7/characters/42" {
		t.Errorf("unexpected upstream path: %s", stub.path())
	}
}

func TestCallTool_CampaignResolutionOrder(t *testing.T) {
	stub, srv := newUpstreamStub(http.StatusOK, `{"data":[]}`)
	defer srv.Close()

	// Explicit parameter wins over configured default.
	cfg := testConfig(srv.URL)
	cfg.Kanka.CampaignID = "7"
	h := testHandler(cfg)

	callTool(t, h.MCPServer(), "list_entities", map[string]interface{}{
		"campaign_id": "99",
		"entity":      "locations",
	})
	if got := stub.path(); !strings.HasPrefix(got, "/campaigns/99/locations") {
		t.Errorf("expected explicit campaign in path, got %s", got)
	}

	// Default used when parameter omitted.
	callTool(t, h.MCPServer(), "list_entities", map[string]interface{}{
		"entity": "locations",
	})
	if got := stub.path(); !strings.HasPrefix(got, "/campaigns/7/locations") {
		t.Errorf("expected default campaign in path, got %s", got)
	}
}

func TestCallTool_NoCampaignConfigured(t *testing.T) {
	stub, srv := newUpstreamStub(http.StatusOK, `{"data":[]}`)
	defer srv.Close()

	h := testHandler(testConfig(srv.URL))

	result := callTool(t, h.MCPServer(), "list_entities", map[string]interface{}{
		"entity": "characters",
	})
	if !result.IsError {
		t.Fatal("expected error result when no campaign is configured")
	}
	if text := resultText(t, result); !strings.Contains(text, "no default campaign configured") {
		t.Errorf("unexpected error text: %q", text)
	}
	if n := stub.requests.Load(); n != 0 {
		t.Errorf("expected no upstream requests, got %d", n)
	}
}

func TestCallTool_ListEntities_PageSize(t *testing.T) {
	stub, srv := newUpstreamStub(http.StatusOK, `{"data":[]}`)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Kanka.CampaignID = "7"
	h := testHandler(cfg)

	callTool(t, h.MCPServer(), "list_entities", map[string]interface{}{"entity": "quests"})

	path := stub.path()
	if !strings.Contains(path, "page=1") || !strings.Contains(path, "perPage=100") {
		t.Errorf("expected page=1&perPage=100 in path, got %s", path)
	}
}

func TestCallTool_SearchByName_Query(t *testing.T) {
	stub, srv := newUpstreamStub(http.StatusOK, `{"data":[]}`)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Kanka.CampaignID = "7"
	h := testHandler(cfg)

	callTool(t, h.MCPServer(), "search_by_name", map[string]interface{}{
		"entity": "characters",
		"name":   "Morrigan",
	})

	path := stub.path()
	if !strings.HasPrefix(path, "/campaigns/7/characters?") {
		t.Errorf("unexpected upstream path: %s", path)
	}
	if !strings.Contains(path, "name=Morrigan") || !strings.Contains(path, "perPage=50") {
		t.Errorf("expected name filter and perPage=50 in path, got %s", path)
	}
}

func TestCallTool_RawGet_PassesPathVerbatim(t *testing.T) {
	stub, srv := newUpstreamStub(http.StatusOK, `{"data":[]}`)
	defer srv.Close()

	h := testHandler(testConfig(srv.URL))
	result := callTool(t, h.MCPServer(), "raw_get", map[string]interface{}{
		"path": "/campaigns/3/characters?page=2&perPage=15",
	})

	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if stub.path() != "/campaigns/3/characters?page=2&perPage=15" {
		t.Errorf("unexpected upstream path: %s", stub.path())
	}
}

func TestCallTool_PrettyPrintedRoundTrip(t *testing.T) {
	compact := `{"data":{"id":42,"name":"Morrigan","tags":[3,5],"is_private":false}}`
	_, srv := newUpstreamStub(http.StatusOK, compact)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Kanka.CampaignID = "7"
	h := testHandler(cfg)

	result := callTool(t, h.MCPServer(), "get_entity", map[string]interface{}{
		"entity": "characters",
		"id":     42,
	})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "\n  ") {
		t.Error("expected pretty-printed output")
	}

	var want, got any
	if err := json.Unmarshal([]byte(compact), &want); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	if err := json.Unmarshal([]byte(text), &got); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("round trip mismatch:\nwant %v\ngot  %v", want, got)
	}
}

func TestCallTool_UpstreamErrorPropagated(t *testing.T) {
	_, srv := newUpstreamStub(http.StatusNotFound, `{"message":"no such character"}`)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Kanka.CampaignID = "7"
	h := testHandler(cfg)

	result := callTool(t, h.MCPServer(), "get_entity", map[string]interface{}{
		"entity": "characters",
		"id":     42,
	})
	if !result.IsError {
		t.Fatal("expected error result for upstream 404")
	}
	text := resultText(t, result)
	if !strings.Contains(text, "404") {
		t.Errorf("expected status code in error text: %q", text)
	}
	if !strings.Contains(text, "no such character") {
		t.Errorf("expected upstream body in error text: %q", text)
	}
}

func TestListTools_AllRegistered(t *testing.T) {
	_, srv := newUpstreamStub(http.StatusOK, `{}`)
	defer srv.Close()

	h := testHandler(testConfig(srv.URL))
	tools := listTools(t, h.MCPServer())

	if len(tools) != 5 {
		t.Fatalf("expected 5 tools, got %d", len(tools))
	}

	byName := make(map[string]bool, len(tools))
	for _, tool := range tools {
		byName[tool.Name] = true
	}
	for _, name := range []string{"list_campaigns", "list_entities", "get_entity", "search_by_name", "raw_get"} {
		if !byName[name] {
			t.Errorf("tool %s not registered", name)
		}
	}
}
