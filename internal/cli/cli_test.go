package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/sortnet/pkg/config"
	"github.com/matzehuels/sortnet/pkg/errors"
	"github.com/matzehuels/sortnet/pkg/history"
	"github.com/matzehuels/sortnet/pkg/sim"
)

// writeConfig writes a config file under a temp dir and returns its path.
func writeConfig(t *testing.T, cacheBackend, historyBackend string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`[cache]
backend = %q
dir = %q

[history]
backend = %q
dir = %q
`, cacheBackend, filepath.Join(dir, "cache"), historyBackend, filepath.Join(dir, "runs"))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns its standard output.
func execute(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "oddeven",
			args: []string{"run", "-s", "oddeven", "--values", "5,3,8,1,9,2"},
			want: []string{"oddeven", "1 2 3 5 8 9", "Correctly sorted in 4 rounds"},
		},
		{
			name: "alternate rounds",
			args: []string{"run", "--values", "5 3 8 1 9 2", "--rounds"},
			want: []string{
				"Initial: 5 3 8 1 9 2",
				"Round 1: 3 5 8 1 2 9",
				"Round 2: 3 1 5 8 2 9",
				"Round 3: 1 3 2 5 8 9",
				"Round 4: 1 2 3 5 8 9",
				"Correctly sorted in 5 rounds",
			},
		},
		{
			name: "sasaki cells",
			args: []string{"run", "-s", "sasaki", "--values", "3,1,2", "--debug-cells"},
			want: []string{"[0] (-inf, 3*)", "area=-1", "+inf", "Correctly sorted in 2 rounds"},
		},
		{
			name: "single value",
			args: []string{"run", "-s", "sasaki", "--values", "7"},
			want: []string{"Correctly sorted in 0 rounds"},
		},
		{
			name: "random",
			args: []string{"run", "-s", "oddeven", "-n", "25", "--seed", "3", "--pool", "--workers", "2"},
			want: []string{"Correctly sorted", "25 values"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, writeConfig(t, config.BackendNone, config.BackendNone), tt.args...)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestRunCommandJSON(t *testing.T) {
	cfg := writeConfig(t, config.BackendNone, config.BackendNone)
	out, err := execute(t, cfg, "run", "-s", "sasaki", "--values", "4,4,1,9", "--json", "--trace")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var res sim.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !slices.Equal(res.Output, []int64{1, 4, 4, 9}) {
		t.Errorf("output = %v", res.Output)
	}
	if len(res.Trace) != res.Rounds+1 {
		t.Errorf("trace has %d snapshots for %d rounds", len(res.Trace), res.Rounds)
	}
}

func TestRunCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown strategy", []string{"run", "-s", "bogo"}, errors.ErrCodeInvalidStrategy},
		{"bad value", []string{"run", "--values", "1,x"}, errors.ErrCodeInvalidInput},
		{"size mismatch", []string{"run", "--values", "1,2", "-n", "3"}, errors.ErrCodeInvalidInput},
		{"empty range", []string{"run", "--min", "9", "--max", "1"}, errors.ErrCodeInvalidInput},
		{"bad size", []string{"run", "-n", "-4"}, errors.ErrCodeInvalidSize},
		{"cells need sasaki", []string{"run", "-s", "oddeven", "--debug-cells"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, writeConfig(t, config.BackendNone, config.BackendNone), tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, filepath.Join(t.TempDir(), "absent.toml"), "run")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestCompareCommand(t *testing.T) {
	cfg := writeConfig(t, config.BackendNone, config.BackendNone)
	out, err := execute(t, cfg, "compare", "--values", "5,3,8,1,9,2", "--json")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	var results []sim.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]int{"alternate": 5, "oddeven": 4, "sasaki": 5}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d", len(results), len(want))
	}
	for _, r := range results {
		if r.Rounds != want[r.Strategy] {
			t.Errorf("%s rounds = %d, want %d", r.Strategy, r.Rounds, want[r.Strategy])
		}
		if !r.Sorted {
			t.Errorf("%s not sorted", r.Strategy)
		}
	}

	table, err := execute(t, cfg, "compare", "-n", "12")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	for _, name := range []string{"Strategy", "alternate", "oddeven", "sasaki"} {
		if !strings.Contains(table, name) {
			t.Errorf("table missing %q:\n%s", name, table)
		}
	}
}

func TestHistoryCommands(t *testing.T) {
	cfg := writeConfig(t, config.BackendNone, config.BackendFile)

	if _, err := execute(t, cfg, "run", "--values", "2,1"); err != nil {
		t.Fatalf("run: %v", err)
	}
	out, err := execute(t, cfg, "history", "list", "--json")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	var recs []history.Record
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recs) != 1 || !slices.Equal(recs[0].Output, []int64{1, 2}) {
		t.Fatalf("records = %+v", recs)
	}

	out, err = execute(t, cfg, "history", "show", recs[0].ID)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	if !strings.Contains(out, recs[0].ID) || !strings.Contains(out, "alternate") {
		t.Errorf("show output:\n%s", out)
	}

	out, err = execute(t, cfg, "history", "list")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if !strings.Contains(out, recs[0].ID) {
		t.Errorf("list output:\n%s", out)
	}

	if _, err := execute(t, cfg, "history", "show", "nope"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("show bad id error = %v", err)
	}
}

func TestHistoryDisabled(t *testing.T) {
	cfg := writeConfig(t, config.BackendNone, config.BackendNone)
	if _, err := execute(t, cfg, "history", "list"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestCacheCommands(t *testing.T) {
	cfg := writeConfig(t, config.BackendFile, config.BackendNone)

	first, err := execute(t, cfg, "run", "--values", "3,2,1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(first, iconFresh) {
		t.Errorf("first run not fresh:\n%s", first)
	}
	second, err := execute(t, cfg, "run", "--values", "3,2,1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(second, iconCached) {
		t.Errorf("second run not cached:\n%s", second)
	}

	out, err := execute(t, cfg, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached results") {
		t.Errorf("clear output:\n%s", out)
	}

	out, err = execute(t, cfg, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if want := filepath.Join(filepath.Dir(cfg), "cache"); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if _, err := execute(t, path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := config.Load(path); err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if _, err := execute(t, path, "config", "init"); err == nil {
		t.Error("second init should refuse to overwrite")
	}
	if _, err := execute(t, path, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, err := execute(t, path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, section := range []string{"[run]", "[cache]", "[history]", "[server]"} {
		if !strings.Contains(out, section) {
			t.Errorf("show output missing %s", section)
		}
	}

	out, err = execute(t, path, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("path = %q, want %q", strings.TrimSpace(out), path)
	}
}

func TestDiagramCommand(t *testing.T) {
	cfg := writeConfig(t, config.BackendNone, config.BackendNone)
	out, err := execute(t, cfg, "diagram", "-f", "dot", "--groups", "--values", "4,3,2,1")
	if err != nil {
		t.Fatalf("diagram: %v", err)
	}
	if !strings.HasPrefix(out, "digraph") || !strings.Contains(out, "r0 -> r1") {
		t.Errorf("unexpected dot:\n%s", out)
	}

	file := filepath.Join(t.TempDir(), "run.dot")
	if _, err := execute(t, cfg, "diagram", "--values", "2,1", "-o", file); err != nil {
		t.Fatalf("diagram -o: %v", err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("digraph")) {
		t.Errorf("file content = %q", data)
	}

	if _, err := execute(t, cfg, "diagram", "-f", "gif", "--values", "2,1"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	cfg := writeConfig(t, config.BackendNone, config.BackendNone)
	out, err := execute(t, cfg, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "sortnet") {
		t.Error("completion script does not mention sortnet")
	}
}
