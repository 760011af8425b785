package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/4thel00z/memctl/internal"
	"github.com/spf13/cobra"
)

// fakeMemoryServer answers the memory server API with scripted outcomes.
type fakeMemoryServer struct {
	healthy         bool
	addOK           bool
	retrieveContent string
	adds            atomic.Int32
}

func (f *fakeMemoryServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			json.NewEncoder(w).Encode(map[string]any{"success": f.healthy})
		case "/api/v1/memories/add":
			f.adds.Add(1)
			if !f.addOK {
				json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "extraction failed"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": map[string]any{
					"episodes": []any{map[string]any{}},
					"entities": []any{map[string]any{}, map[string]any{}},
					"edges":    []any{map[string]any{}},
				},
			})
		case "/api/v1/memories/retrieve":
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": map[string]any{
					"episodes": []any{map[string]any{"content": f.retrieveContent, "score": 0.9}},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}
}

// factoryFor wires every command to the given app, bypassing config loading.
func factoryFor(a *app) appFactory {
	return func(*cobra.Command) (*app, error) { return a, nil }
}

func testApp(cfg *internal.Config) *app {
	return &app{
		cfg:    cfg,
		client: internal.NewMemoryClient(cfg.Server),
		pacer:  internal.NopPacer(),
	}
}

func runCommand(t *testing.T, appFor appFactory, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("test", appFor)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootShowsHelp(t *testing.T) {
	out, err := runCommand(t, factoryFor(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "memctl") {
		t.Errorf("help output missing command name:\n%s", out)
	}
	for _, sub := range []string{"status", "init", "clear", "reset", "test", "preview"} {
		if !strings.Contains(out, sub) {
			t.Errorf("help output missing subcommand %q", sub)
		}
	}
}

func TestRootFlagDefaults(t *testing.T) {
	root := NewRootCmd("test", factoryFor(nil))

	cfgFlag := root.PersistentFlags().Lookup("config")
	if cfgFlag == nil || cfgFlag.DefValue != "memctl.yaml" {
		t.Errorf("config flag default = %v, want memctl.yaml", cfgFlag)
	}
	if root.PersistentFlags().Lookup("index") == nil {
		t.Error("index flag not registered")
	}
}

func newFakeStack(t *testing.T, mem *fakeMemoryServer) (*app, func()) {
	t.Helper()

	memSrv := httptest.NewServer(mem.handler())

	cfg := internal.DefaultConfig()
	cfg.Server.BaseURL = memSrv.URL

	return testApp(cfg), memSrv.Close
}
