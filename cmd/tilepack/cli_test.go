package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/tilepack/internal/export"
	"github.com/piwi3910/tilepack/internal/model"
	"github.com/piwi3910/tilepack/internal/project"
)

const referenceCSV = `label,width,height
A,20,40
B,120,40
C,85,59
D,199,380
E,85,875
`

// setupHome points the home directory at a temp dir so config files from
// the developer's machine never leak into a test.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// runCLI executes a fresh command tree and captures stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPackCommand(t *testing.T) {
	home := setupHome(t)
	input := writeInput(t, home, "items.csv", referenceCSV)

	tests := []struct {
		name        string
		args        []string
		env         map[string]string
		wantErr     string
		wantContain []string
	}{
		{
			name:        "reference list",
			args:        []string{"pack", input, "--max-side", "1000"},
			wantContain: []string{"Packed 5 of 5 items into 509x875", "bin 695x875", "order area"},
		},
		{
			name:        "max side from environment",
			args:        []string{"pack", input},
			env:         map[string]string{"TILEPACK_MAX_SIDE": "1000"},
			wantContain: []string{"into 509x875"},
		},
		{
			name:        "orders from environment",
			args:        []string{"pack", input, "--max-side", "1000"},
			env:         map[string]string{"TILEPACK_ORDERS": "width,height"},
			wantContain: []string{"Packed 5 of 5"},
		},
		{
			name:    "unknown order",
			args:    []string{"pack", input, "--orders", "area,bogus"},
			wantErr: "unknown ordering",
		},
		{
			name:    "unknown profile",
			args:    []string{"pack", input, "--profile", "nope"},
			wantErr: `unknown profile "nope"`,
		},
		{
			name:    "invalid discard step",
			args:    []string{"pack", input, "--discard-step", "0"},
			wantErr: "packing failed",
		},
		{
			name:    "missing input",
			args:    []string{"pack", filepath.Join(home, "missing.csv")},
			wantErr: "no items imported",
		},
		{
			name:    "no arguments",
			args:    []string{"pack"},
			wantErr: "accepts 1 arg",
		},
		{
			name:    "invalid log level",
			args:    []string{"pack", input, "--log-level", "loud"},
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			out, err := runCLI(t, tt.args...)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got output %q", tt.wantErr, out)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error %q does not contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(out, want) {
					t.Errorf("output %q does not contain %q", out, want)
				}
			}
		})
	}
}

func TestPackCommand_ConfigFile(t *testing.T) {
	home := setupHome(t)
	input := writeInput(t, home, "items.csv", referenceCSV)
	cfg := writeInput(t, home, "custom.yaml", "max-side: 1000\norders: [area]\n")

	out, err := runCLI(t, "pack", input, "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "into 509x875") {
		t.Errorf("config file not applied: %q", out)
	}

	// An explicit config file must exist
	if _, err := runCLI(t, "pack", input, "--config", filepath.Join(home, "absent.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestPackCommand_Outputs(t *testing.T) {
	home := setupHome(t)
	input := writeInput(t, home, "items.csv", referenceCSV)
	outDir := t.TempDir()

	paths := map[string]string{
		"--manifest":     filepath.Join(outDir, "atlas.json"),
		"--xlsx":         filepath.Join(outDir, "report.xlsx"),
		"--pdf":          filepath.Join(outDir, "preview.pdf"),
		"--atlas":        filepath.Join(outDir, "atlas.png"),
		"--save-project": filepath.Join(outDir, "items"+project.Extension),
	}
	args := []string{"pack", input, "--max-side", "1000"}
	for flag, path := range paths {
		args = append(args, flag, path)
	}

	if _, err := runCLI(t, args...); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for flag, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("%s output missing: %v", flag, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s output is empty", flag)
		}
	}

	data, err := os.ReadFile(paths["--manifest"])
	if err != nil {
		t.Fatal(err)
	}
	var m export.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("manifest is not JSON: %v", err)
	}
	if m.Size != model.NewSize(509, 875) || len(m.Items) != 5 {
		t.Errorf("unexpected manifest: size %v, %d items", m.Size, len(m.Items))
	}

	p, err := project.LoadProject(paths["--save-project"])
	if err != nil {
		t.Fatalf("project not loadable: %v", err)
	}
	if p.Name != "items" || len(p.Items) != 5 || p.Result == nil {
		t.Errorf("unexpected project: %q, %d items, result %v", p.Name, len(p.Items), p.Result)
	}

	appCfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if len(appCfg.RecentProjects) != 1 || filepath.Base(appCfg.RecentProjects[0]) != "items"+project.Extension {
		t.Errorf("recent projects not updated: %v", appCfg.RecentProjects)
	}
}

func TestPackCommand_JSONAndStrict(t *testing.T) {
	home := setupHome(t)
	input := writeInput(t, home, "items.csv", referenceCSV+"Huge,5000,5000\n")

	out, err := runCLI(t, "pack", input, "--max-side", "1000", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var m export.Manifest
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("stdout is not a manifest: %v", err)
	}
	if len(m.Unplaced) != 1 || m.Unplaced[0].Label != "Huge" {
		t.Errorf("expected Huge unplaced, got %+v", m.Unplaced)
	}
	if !m.Fallback {
		t.Error("expected fallback packing")
	}

	_, err = runCLI(t, "pack", input, "--max-side", "1000", "--strict")
	if err == nil || !strings.Contains(err.Error(), "1 item(s) could not be placed") {
		t.Errorf("expected strict failure, got %v", err)
	}
}

func TestEstimateCommand(t *testing.T) {
	home := setupHome(t)
	input := writeInput(t, home, "items.csv", referenceCSV)

	out, err := runCLI(t, "estimate", input, "--max-side", "500", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var est model.Estimate
	if err := json.Unmarshal([]byte(out), &est); err != nil {
		t.Fatalf("stdout is not JSON: %v", err)
	}
	if est.ItemCount != 5 || est.TotalArea != 160610 {
		t.Errorf("unexpected totals: %+v", est)
	}
	if est.MinSquareSide != 875 || est.LargestSide != 875 {
		t.Errorf("unexpected bounds: %+v", est)
	}
	if est.Oversized != 1 {
		t.Errorf("expected the 85x875 item to be oversized for 500, got %d", est.Oversized)
	}

	out, err = runCLI(t, "estimate", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Min square bin:  875x875") {
		t.Errorf("unexpected text output: %q", out)
	}
}

func TestCompareCommand(t *testing.T) {
	home := setupHome(t)
	input := writeInput(t, home, "items.csv", referenceCSV)

	out, err := runCLI(t, "compare", input, "--max-side", "1000", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var rows []comparisonRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("stdout is not JSON: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 scenarios, got %d", len(rows))
	}
	if rows[0].Scenario != "Current Settings" || rows[0].Size != "509x875" {
		t.Errorf("unexpected baseline: %+v", rows[0])
	}
	for _, r := range rows {
		if r.Unplaced != 0 {
			t.Errorf("scenario %s left %d items unplaced", r.Scenario, r.Unplaced)
		}
	}

	out, err = runCLI(t, "compare", input, "--max-side", "1000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Scenario", "Current Settings", "Flipping Disabled", "Bounded Spaces (8192)"} {
		if !strings.Contains(out, want) {
			t.Errorf("table does not contain %q:\n%s", want, out)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	home := setupHome(t)

	out, err := runCLI(t, "config", "show", "--max-side", "2048")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "max-side: 2048") || !strings.Contains(out, "policy: growable") {
		t.Errorf("unexpected settings output:\n%s", out)
	}

	out, err = runCLI(t, "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if strings.Count(out, "Wrote ") != 2 {
		t.Errorf("expected two files written, got:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(home, ".tilepack.yaml")); err != nil {
		t.Errorf("yaml config missing: %v", err)
	}

	out, err = runCLI(t, "config", "init")
	if err != nil {
		t.Fatalf("second config init failed: %v", err)
	}
	if strings.Count(out, "Kept existing") != 2 {
		t.Errorf("expected existing files kept, got:\n%s", out)
	}

	// The written yaml is picked up as the default config file
	out, err = runCLI(t, "config", "show", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var s model.PackSettings
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("stdout is not JSON: %v", err)
	}
	if s.MaxBinSide != model.DefaultMaxBinSide || len(s.Orders) != len(model.DefaultOrderNames) {
		t.Errorf("unexpected settings after init: %+v", s)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{"area, width", "", "-height"})
	want := []string{"area", "width", "-height"}
	if len(got) != len(want) {
		t.Fatalf("splitList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPackCommand_ProjectInput(t *testing.T) {
	home := setupHome(t)
	input := writeInput(t, home, "items.csv", referenceCSV)
	extra := writeInput(t, home, "extra.csv", "label,width,height\nF,30,30\n")
	base := filepath.Join(home, "items"+project.Extension)
	icons := filepath.Join(home, "extra"+project.Extension)
	merged := filepath.Join(home, "merged"+project.Extension)

	if _, err := runCLI(t, "pack", input, "--max-side", "1000", "--save-project", base); err != nil {
		t.Fatalf("saving base project failed: %v", err)
	}
	if _, err := runCLI(t, "pack", extra, "--save-project", icons); err != nil {
		t.Fatalf("saving extra project failed: %v", err)
	}

	// Saved settings come back with the project
	out, err := runCLI(t, "pack", base)
	if err != nil {
		t.Fatalf("packing project failed: %v", err)
	}
	if !strings.Contains(out, "Packed 5 of 5 items into 509x875") {
		t.Errorf("project settings not applied: %q", out)
	}

	// Flags still override them
	out, err = runCLI(t, "pack", base, "--max-side", "400")
	if err != nil {
		t.Fatalf("packing project failed: %v", err)
	}
	if !strings.Contains(out, "unplaced: E 85x875") {
		t.Errorf("max-side flag not applied to project: %q", out)
	}

	out, err = runCLI(t, "pack", base, "--merge", icons, "--save-project", merged)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if !strings.Contains(out, "Packed 6 of 6 items") {
		t.Errorf("merged item not packed: %q", out)
	}
	p, err := project.LoadProject(merged)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "items" || len(p.Items) != 6 || p.Settings.MaxBinSide != 1000 {
		t.Errorf("unexpected merged project: %q, %d items, max side %d", p.Name, len(p.Items), p.Settings.MaxBinSide)
	}

	// Merging the same project twice adds nothing
	out, err = runCLI(t, "pack", merged, "--merge", icons)
	if err != nil {
		t.Fatalf("second merge failed: %v", err)
	}
	if !strings.Contains(out, "Packed 6 of 6 items") {
		t.Errorf("duplicate items merged: %q", out)
	}

	if _, err := runCLI(t, "pack", base, "--merge", filepath.Join(home, "absent"+project.Extension)); err == nil ||
		!strings.Contains(err.Error(), "merge failed") {
		t.Errorf("expected merge failure, got %v", err)
	}

	empty := filepath.Join(home, "empty"+project.Extension)
	if err := project.SaveProject(empty, model.NewProject()); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "estimate", empty); err == nil || !strings.Contains(err.Error(), "has no items") {
		t.Errorf("expected empty project error, got %v", err)
	}
}

func TestPackCommand_ImportLimits(t *testing.T) {
	home := setupHome(t)
	input := writeInput(t, home, "items.csv", "label,width,height,quantity\n"+
		"A,20,40,1\nB,120,40,1\nC,85,59,1\nD,199,380,1\nE,85,875,1\n"+
		"Flood,10,10,100000000000\n"+
		"Wide,10000000,10,1\n")

	out, err := runCLI(t, "pack", input, "--max-side", "1000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Packed 5 of 5 items into 509x875") {
		t.Errorf("rejected rows leaked into the packing: %q", out)
	}

	_, err = runCLI(t, "pack", input, "--max-side", "1000", "--strict")
	if err == nil || !strings.Contains(err.Error(), "2 import problem(s)") {
		t.Errorf("expected strict import failure, got %v", err)
	}
}

func TestProfileCommands(t *testing.T) {
	home := setupHome(t)
	input := writeInput(t, home, "items.csv", referenceCSV)
	shared := filepath.Join(home, "shared", "ui-1k.json")

	out, err := runCLI(t, "profile", "save", "ui-1k", "--max-side", "1000", "--description", "UI sheet")
	if err != nil {
		t.Fatalf("profile save failed: %v", err)
	}
	if !strings.Contains(out, "Saved profile ui-1k") {
		t.Errorf("unexpected save output: %q", out)
	}

	out, err = runCLI(t, "profile", "list")
	if err != nil {
		t.Fatalf("profile list failed: %v", err)
	}
	for _, want := range []string{"atlas-4k", "built-in", "ui-1k", "custom", "UI sheet"} {
		if !strings.Contains(out, want) {
			t.Errorf("profile list does not contain %q:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "pack", input, "--profile", "ui-1k")
	if err != nil {
		t.Fatalf("pack with profile failed: %v", err)
	}
	if !strings.Contains(out, "into 509x875") {
		t.Errorf("profile not applied: %q", out)
	}

	if _, err := runCLI(t, "profile", "export", "ui-1k", shared); err != nil {
		t.Fatalf("profile export failed: %v", err)
	}
	if _, err := runCLI(t, "profile", "remove", "ui-1k"); err != nil {
		t.Fatalf("profile remove failed: %v", err)
	}
	if _, err := runCLI(t, "pack", input, "--profile", "ui-1k"); err == nil {
		t.Error("expected removed profile to be unknown")
	}

	out, err = runCLI(t, "profile", "import", shared)
	if err != nil {
		t.Fatalf("profile import failed: %v", err)
	}
	if !strings.Contains(out, "Imported profile ui-1k") {
		t.Errorf("unexpected import output: %q", out)
	}
	store, err := project.LoadDefaultProfiles()
	if err != nil {
		t.Fatal(err)
	}
	if p := store.Find("ui-1k"); p == nil || p.Settings.MaxBinSide != 1000 {
		t.Errorf("imported profile not stored: %+v", p)
	}

	errorCases := [][]string{
		{"profile", "save", "atlas-4k"},
		{"profile", "remove", "nope"},
		{"profile", "export", "nope", filepath.Join(home, "nope.json")},
		{"profile", "import", filepath.Join(home, "absent.json")},
	}
	for _, args := range errorCases {
		if _, err := runCLI(t, args...); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestConfigBackupRestore(t *testing.T) {
	home := setupHome(t)
	backup := filepath.Join(home, "backup.json")

	if _, err := runCLI(t, "profile", "save", "keep", "--max-side", "1000"); err != nil {
		t.Fatalf("profile save failed: %v", err)
	}
	cfg := model.DefaultAppConfig()
	cfg.DefaultProfile = "keep"
	if err := project.SaveAppConfig(project.DefaultConfigPath(), cfg); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "config", "backup", backup)
	if err != nil {
		t.Fatalf("config backup failed: %v", err)
	}
	if !strings.Contains(out, "1 profile(s)") {
		t.Errorf("unexpected backup output: %q", out)
	}

	if err := os.RemoveAll(project.DefaultConfigDir()); err != nil {
		t.Fatal(err)
	}

	out, err = runCLI(t, "config", "restore", backup)
	if err != nil {
		t.Fatalf("config restore failed: %v", err)
	}
	if !strings.Contains(out, "Restored config and 1 profile(s) from backup version "+project.BackupVersion) {
		t.Errorf("unexpected restore output: %q", out)
	}

	restored, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if restored.DefaultProfile != "keep" {
		t.Errorf("default profile not restored: %q", restored.DefaultProfile)
	}
	store, err := project.LoadDefaultProfiles()
	if err != nil {
		t.Fatal(err)
	}
	if store.Find("keep") == nil {
		t.Error("custom profile not restored")
	}

	if _, err := runCLI(t, "config", "restore", filepath.Join(home, "absent.json")); err == nil {
		t.Error("expected error for missing backup")
	}
}
