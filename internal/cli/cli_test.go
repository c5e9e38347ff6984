package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/stagehand-dev/stagehand/pkg/cache"
	"github.com/stagehand-dev/stagehand/pkg/errors"
)

func TestCacheDirXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	got, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if want := filepath.Join(dir, appName); got != want {
		t.Errorf("cacheDir() = %q, want %q", got, want)
	}
}

func TestNewCacheBackendSelection(t *testing.T) {
	ctx := context.Background()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(cacheBackendEnv, "")

	// noCache wins over any backend
	store, err := newCache(ctx, "badger", true)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	if _, ok := store.(*cache.NullCache); !ok {
		t.Errorf("noCache should yield NullCache, got %T", store)
	}

	// "none" disables caching
	store, err = newCache(ctx, "none", false)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	if _, ok := store.(*cache.NullCache); !ok {
		t.Errorf("backend none should yield NullCache, got %T", store)
	}

	// default is the file cache
	store, err = newCache(ctx, "", false)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	if _, ok := store.(*cache.FileCache); !ok {
		t.Errorf("default backend should yield FileCache, got %T", store)
	}
	_ = store.Close()

	// badger opens under the cache directory
	store, err = newCache(ctx, "badger", false)
	if err != nil {
		t.Fatalf("newCache badger: %v", err)
	}
	if _, ok := store.(*cache.BadgerCache); !ok {
		t.Errorf("backend badger should yield BadgerCache, got %T", store)
	}
	_ = store.Close()

	// the environment variable picks the backend when no flag is set
	t.Setenv(cacheBackendEnv, "none")
	store, err = newCache(ctx, "", false)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	if _, ok := store.(*cache.NullCache); !ok {
		t.Errorf("env selection should yield NullCache, got %T", store)
	}

	// unknown names are rejected
	if _, err := newCache(ctx, "memcached", false); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown backend error = %v, want INVALID_INPUT", err)
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	want := map[string]bool{
		"build":      false,
		"entries":    false,
		"sprite":     false,
		"graph":      false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		name := strings.Fields(cmd.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"/app", []string{"/app"}},
		{"/app,/mail", []string{"/app", "/mail"}},
		{" /app , /mail ", []string{"/app", "/mail"}},
	}
	for _, tt := range tests {
		got := splitList(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitList(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
