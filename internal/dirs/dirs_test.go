package dirs

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestConfigDirHonoursXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup is linux only")
	}
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir: %v", err)
	}
	if want := filepath.Join(base, "fordownload"); got != want {
		t.Fatalf("ConfigDir = %q, want %q", got, want)
	}

	f, err := ConfigFile()
	if err != nil {
		t.Fatalf("ConfigFile: %v", err)
	}
	if filepath.Base(f) != "config.yaml" || filepath.Dir(f) != got {
		t.Fatalf("ConfigFile = %q", f)
	}
}

func TestEnsure(t *testing.T) {
	if err := Ensure(""); err == nil {
		t.Fatal("expected error for empty path")
	}
	p := filepath.Join(t.TempDir(), "a", "b")
	if err := Ensure(p); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if err := Ensure(p); err != nil {
		t.Fatalf("Ensure twice: %v", err)
	}
}
