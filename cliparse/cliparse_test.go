// cliparse/cliparse_test.go
package cliparse

import (
	"testing"
)

func TestParseFlags_EnvFallback(t *testing.T) {
	t.Setenv("PHOTONDB_PATH", "/var/lib/photondb/store.db")

	cfg, err := ParseFlags([]string{"stats"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StorePath != "/var/lib/photondb/store.db" {
		t.Errorf("expected env store path, got %q", cfg.StorePath)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PHOTONDB_PATH", "/var/lib/photondb/store.db")

	cfg, err := ParseFlags([]string{"-d", "local.db", "stats"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StorePath != "local.db" {
		t.Errorf("CLI should override env: expected local.db, got %q", cfg.StorePath)
	}
}

func TestParseFlags_DefaultPath(t *testing.T) {
	t.Setenv("PHOTONDB_PATH", "")

	cfg, err := ParseFlags([]string{"stats"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StorePath != "photondb.db" {
		t.Errorf("expected default path photondb.db, got %q", cfg.StorePath)
	}
}

func TestParseFlags_ImportCommand(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-doe", "DOE1", "-operator", "alice", "-notes", "retest", "-move", "/archive",
		"import", "/data/sweep-01",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Command != CmdImport {
		t.Errorf("expected command import, got %q", cfg.Command)
	}
	if cfg.Arg != "/data/sweep-01" {
		t.Errorf("expected folder arg, got %q", cfg.Arg)
	}
	if cfg.DOE != "DOE1" || cfg.Operator != "alice" || cfg.Notes != "retest" || cfg.TargetRoot != "/archive" {
		t.Errorf("import options not parsed: %+v", cfg)
	}
}

func TestParseFlags_ImportDefaults(t *testing.T) {
	cfg, err := ParseFlags([]string{"import", "/data/sweep-01"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Operator != "T&P" {
		t.Errorf("expected default operator T&P, got %q", cfg.Operator)
	}
	if cfg.SystemVersion != "CM300v1.0" {
		t.Errorf("expected default system version CM300v1.0, got %q", cfg.SystemVersion)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", []string{}},
		{"unknown command", []string{"vacuum"}},
		{"import without folder", []string{"import"}},
		{"export without path", []string{"export"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFlags(tt.args); err == nil {
				t.Errorf("expected error for args %v", tt.args)
			}
		})
	}
}

func TestParseFlags_ExportAndReset(t *testing.T) {
	cfg, err := ParseFlags([]string{"export", "out.xlsx"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Command != CmdExport || cfg.Arg != "out.xlsx" {
		t.Errorf("export not parsed: %+v", cfg)
	}

	cfg, err = ParseFlags([]string{"reset"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Command != CmdReset {
		t.Errorf("reset not parsed: %+v", cfg)
	}
}
