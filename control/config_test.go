// control/config_test.go
// Author: momentics <momentics@gmail.com>

package control

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigStoreLoadFileDecodesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("interval_ms = 250\nname = \"echo\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cs := NewConfigStore()
	if err := cs.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	snap := cs.GetSnapshot()
	if snap["name"] != "echo" {
		t.Fatalf("expected name=echo, got %v", snap["name"])
	}
	if v, ok := snap["interval_ms"].(int64); !ok || v != 250 {
		t.Fatalf("expected interval_ms=250, got %v (%T)", snap["interval_ms"], snap["interval_ms"])
	}
}

func TestConfigStoreLoadFileRejectsMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("this is not = valid [[toml"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cs := NewConfigStore()
	if err := cs.LoadFile(path); err == nil {
		t.Fatal("expected LoadFile to reject malformed TOML")
	}
	if len(cs.GetSnapshot()) != 0 {
		t.Fatal("expected the store to remain empty after a failed decode")
	}
}

func TestConfigStoreLoadFileMissingFile(t *testing.T) {
	cs := NewConfigStore()
	if err := cs.LoadFile(filepath.Join(t.TempDir(), "does-not-exist.toml")); err == nil {
		t.Fatal("expected LoadFile to fail for a missing file")
	}
}

func TestConfigStoreSetConfigDispatchesOnReloadListener(t *testing.T) {
	cs := NewConfigStore()
	done := make(chan struct{})
	cs.OnReload(func() { close(done) })

	cs.SetConfig(map[string]any{"k": "v"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("OnReload listener was not invoked")
	}
}

func TestConfigStoreWatchFileReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("interval_ms = 100\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cs := NewConfigStore()
	if err := cs.LoadFile(path); err != nil {
		t.Fatalf("initial LoadFile: %v", err)
	}

	reloaded := make(chan struct{}, 1)
	cs.OnReload(func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})

	stop, err := cs.WatchFile(path)
	if err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	defer stop()

	if err := os.WriteFile(path, []byte("interval_ms = 500\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("expected WatchFile to reload after the file was rewritten")
	}

	snap := cs.GetSnapshot()
	if v, ok := snap["interval_ms"].(int64); !ok || v != 500 {
		t.Fatalf("expected interval_ms=500 after reload, got %v (%T)", snap["interval_ms"], snap["interval_ms"])
	}
}

func TestConfigStoreDispatchReloadTriggersGlobalHooks(t *testing.T) {
	fired := make(chan uint64, 1)
	RegisterReloadHook("test-hook", func(generation uint64) {
		select {
		case fired <- generation:
		default:
		}
	})

	before := ReloadGeneration()

	cs := NewConfigStore()
	cs.SetConfig(map[string]any{"a": 1})

	select {
	case gen := <-fired:
		if gen <= before {
			t.Fatalf("expected a reload generation greater than %d, got %d", before, gen)
		}
	case <-time.After(time.Second):
		t.Fatal("expected SetConfig to also trigger the process-wide reload hooks")
	}
}

func TestRunReloadHookRecoversPanic(t *testing.T) {
	done := make(chan struct{})
	RegisterReloadHook("panicking-hook", func(generation uint64) {
		defer close(done)
		panic("boom")
	})

	gen := TriggerHotReloadSync()
	if gen == 0 {
		t.Fatal("expected a nonzero generation")
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected the panicking hook to run before TriggerHotReloadSync returned")
	}
}
