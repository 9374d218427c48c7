package root

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"smarttasks/internal/config"
)

func writeTestConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.Path = filepath.Join(dir, "board.db")
	cfg.Log.Level = "error"
	path := filepath.Join(dir, "config.yaml")
	if err := config.Write(path, cfg); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path, dir
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSetMoveExportRemove(t *testing.T) {
	cfgPath, dir := writeTestConfig(t)

	if _, err := run(t, cfgPath, "set", "mon", "--desc", "Standup", "--type", "meeting"); err != nil {
		t.Fatalf("set mon: %v", err)
	}
	if _, err := run(t, cfgPath, "set", "4", "-d", "Dentist", "-t", "event,personal"); err != nil {
		t.Fatalf("set 4: %v", err)
	}
	out, err := run(t, cfgPath, "move", "0", "fri")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !strings.Contains(out, "swapped") {
		t.Fatalf("move output=%q, want swap", out)
	}

	exportPath := filepath.Join(dir, "out.json")
	if _, err := run(t, cfgPath, "export", "--out", exportPath); err != nil {
		t.Fatalf("export: %v", err)
	}
	got, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	want := `[{"idx":0,"desc":"Dentist","types":["event","personal"]},{"idx":4,"desc":"Standup","types":["meeting"]}]`
	if string(got) != want {
		t.Fatalf("export=%s, want %s", got, want)
	}

	if _, err := run(t, cfgPath, "remove", "0"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	out, err = run(t, cfgPath, "export", "-o", "-")
	if err != nil {
		t.Fatalf("export stdout: %v", err)
	}
	if strings.TrimSpace(out) != `[{"idx":4,"desc":"Standup","types":["meeting"]}]` {
		t.Fatalf("export stdout=%q", out)
	}
}

func TestSetDefaultsType(t *testing.T) {
	cfgPath, _ := writeTestConfig(t)

	if _, err := run(t, cfgPath, "set", "sun", "--desc", "Plan week"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err := run(t, cfgPath, "export", "-o", "-")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.TrimSpace(out) != `[{"idx":6,"desc":"Plan week","types":["task"]}]` {
		t.Fatalf("export=%q", out)
	}
}

func TestCommandErrors(t *testing.T) {
	cfgPath, _ := writeTestConfig(t)

	if _, err := run(t, cfgPath, "remove", "2"); err == nil {
		t.Fatalf("remove empty slot: expected error")
	}
	if _, err := run(t, cfgPath, "set", "8", "--desc", "x"); err == nil {
		t.Fatalf("set out of range: expected error")
	}
	if _, err := run(t, cfgPath, "set", "0", "--type", " , "); err == nil {
		t.Fatalf("set without types: expected error")
	}
	if _, err := run(t, cfgPath, "move", "0", "1"); err == nil {
		t.Fatalf("move from empty slot: expected error")
	}
}

func TestWeekForDate(t *testing.T) {
	cfgPath, _ := writeTestConfig(t)

	out, err := run(t, cfgPath, "week", "--date", "2024-01-08")
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if !strings.Contains(out, "2024-W2") {
		t.Fatalf("week output=%q, want 2024-W2", out)
	}
	if _, err := run(t, cfgPath, "week", "--date", "08/01/2024"); err == nil {
		t.Fatalf("bad date: expected error")
	}
}

func TestShowListsSevenSlots(t *testing.T) {
	cfgPath, _ := writeTestConfig(t)

	if _, err := run(t, cfgPath, "set", "wed", "--desc", "Review", "--type", "task"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err := run(t, cfgPath, "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if n := strings.Count(out, "(empty)"); n != 6 {
		t.Fatalf("empty slots=%d, want 6\n%s", n, out)
	}
	if !strings.Contains(out, "Review") {
		t.Fatalf("show output missing entry:\n%s", out)
	}
}
