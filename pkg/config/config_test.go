package config_test

import (
	"os"
	"testing"

	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/config"
)

func TestNoLockProviderByDefault(t *testing.T) {
	t.Setenv("LOCK_DEFAULT_PROVIDER", "placeholder")
	os.Unsetenv("LOCK_DEFAULT_PROVIDER")

	cfg := config.Load()
	if cfg.Locks.DefaultProvider != "" {
		t.Fatalf("Locks.DefaultProvider = %q, want empty so issuing a code for a hotel without a provider is rejected", cfg.Locks.DefaultProvider)
	}
}

func TestLockProviderFromEnv(t *testing.T) {
	t.Setenv("LOCK_DEFAULT_PROVIDER", "ttlock")
	cfg := config.Load()
	if cfg.Locks.DefaultProvider != "ttlock" {
		t.Fatalf("Locks.DefaultProvider = %q, want ttlock", cfg.Locks.DefaultProvider)
	}
}
