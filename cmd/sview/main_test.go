package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/sview/internal/config"
	"github.com/j-veylop/sview/internal/models"
)

const resultJSON = `{
	"columns": ["time", "service", "requests"],
	"rows": [
		["2024-01-01T00:00:00Z", "web", 3],
		["2024-01-01T01:00:00Z", "web", 1500],
		["2024-01-01T00:00:00Z", "db", 5]
	],
	"bucket_size": 3600
}`

// testLoader returns a loader that yields a fresh config logging into dir.
func testLoader(dir string) func() (*config.Config, error) {
	return func() (*config.Config, error) {
		return &config.Config{
			Fill:          "connect",
			Width:         800,
			WatchDebounce: 20 * time.Millisecond,
			LogLevel:      "debug",
			LogPath:       filepath.Join(dir, "sview.log"),
		}, nil
	}
}

func writeResult(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "result.json")
	if err := os.WriteFile(path, []byte(resultJSON), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(testLoader(dir))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigure(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "no flags keeps loaded values",
			args: nil,
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Fill != "connect" || cfg.Width != 800 || cfg.SourcePath != "" {
					t.Errorf("config changed: %+v", cfg)
				}
			},
		},
		{
			name: "chart flags",
			args: []string{"--fill", "blank", "--group", "host,region", "--hits", "--columns", "host,region,hits,cpu", "--width", "1024", "--bucket", "60"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Fill != "blank" || !cfg.ShowHits || cfg.Width != 1024 || cfg.BucketSize != 60 {
					t.Errorf("config = %+v", cfg)
				}
				if strings.Join(cfg.GroupBy, ",") != "host,region" || len(cfg.Columns) != 4 {
					t.Errorf("GroupBy = %v, Columns = %v", cfg.GroupBy, cfg.Columns)
				}
			},
		},
		{
			name: "positional file",
			args: []string{"result.json"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.SourcePath != "result.json" || cfg.SQLitePath != "" {
					t.Errorf("SourcePath = %q, SQLitePath = %q", cfg.SourcePath, cfg.SQLitePath)
				}
			},
		},
		{
			name: "sqlite",
			args: []string{"--sqlite", "m.db", "--query", "SELECT 1"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.SQLitePath != "m.db" || cfg.SQLiteQuery != "SELECT 1" {
					t.Errorf("config = %+v", cfg)
				}
			},
		},
		{
			name: "alert and log level",
			args: []string{"--alert", "12.5", "--log-level", "warn"},
			check: func(t *testing.T, cfg *config.Config) {
				if !cfg.AlertEnabled || cfg.AlertThreshold != 12.5 || cfg.LogLevel != "warn" {
					t.Errorf("config = %+v", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cli{load: testLoader(t.TempDir())}
			cmd := c.rootCommand()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags failed: %v", err)
			}

			cfg, err := c.configure(cmd, cmd.Flags().Args())
			if err != nil {
				t.Fatalf("configure failed: %v", err)
			}
			t.Cleanup(c.closeLog)
			tt.check(t, cfg)
		})
	}
}

func TestConfigure_InvalidWidth(t *testing.T) {
	c := &cli{load: testLoader(t.TempDir())}
	cmd := c.rootCommand()
	if err := cmd.ParseFlags([]string{"--width", "0"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if _, err := c.configure(cmd, nil); err == nil {
		t.Error("Expected an error for a zero width")
	}
}

func TestRoot_Export(t *testing.T) {
	dir := t.TempDir()
	src := writeResult(t, dir)
	svg := filepath.Join(dir, "chart.svg")

	out, err := execute(t, dir, "--group", "service", "--width", "640", "--export", svg, src)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out, "chart.svg") {
		t.Errorf("output = %q, want the written path", out)
	}

	data, err := os.ReadFile(svg)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	for _, want := range []string{`width="640"`, "web:requests", "db:requests", "<path"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestRoot_NoSource(t *testing.T) {
	if _, err := execute(t, t.TempDir(), "--export", "out.svg"); err == nil {
		t.Error("Expected an error without a data source")
	}
}

func TestRoot_TooManyArgs(t *testing.T) {
	if _, err := execute(t, t.TempDir(), "a.json", "b.json"); err == nil {
		t.Error("Expected an error for two result files")
	}
}

func TestSummary(t *testing.T) {
	dir := t.TempDir()
	src := writeResult(t, dir)

	out, err := execute(t, dir, "summary", "--group", "service", src)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	for _, want := range []string{"result.json", "3 rows", "web:requests", "db:requests", "1,500"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSummary_Empty(t *testing.T) {
	var out bytes.Buffer
	if err := printSummary(&out, &config.Config{}, &models.QueryResult{}); err != nil {
		t.Fatalf("printSummary failed: %v", err)
	}
	if !strings.Contains(out.String(), "Empty data provided to table") {
		t.Errorf("output = %q", out.String())
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version", "--json")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("version --json is not JSON: %v\n%s", err, out)
	}
	for _, k := range []string{"version", "commit", "built", "goVersion", "platform"} {
		if info[k] == "" {
			t.Errorf("version info missing %q", k)
		}
	}

	out, err = execute(t, t.TempDir(), "version", "--short")
	if err != nil || strings.TrimSpace(out) == "" {
		t.Errorf("version --short = %q, %v", out, err)
	}
}

func TestExportSVG_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.svg")
	if err := exportSVG(&config.Config{Width: 800}, nil, path); err != nil {
		t.Fatalf("exportSVG failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "Empty data provided to table") {
		t.Errorf("Expected empty message, got %s", data)
	}
}

func TestExportSVG_BadPath(t *testing.T) {
	if err := exportSVG(&config.Config{Width: 800}, nil, "/nonexistent/dir/out.svg"); err == nil {
		t.Error("Expected an error for an unwritable path")
	}
}
