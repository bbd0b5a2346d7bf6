package main

import (
	"os"
	"testing"
)

// TestMain clears store and cache settings so a developer's shell or .env
// never points CLI tests at a real database.
func TestMain(m *testing.M) {
	for _, key := range []string{
		"DATABASE_URL", "REDIS_URL",
		"RESUME_AGENT_DATABASE_URL", "RESUME_AGENT_STORE", "RESUME_AGENT_SQLITE_PATH", "RESUME_AGENT_CACHE_REDIS_URL",
	} {
		_ = os.Unsetenv(key)
	}

	os.Exit(m.Run())
}
