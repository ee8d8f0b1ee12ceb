package handler_test

import (
	"encoding/json"
	"os"
	"testing"
)

func ptr(s string) *string {
	return &s
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// unsetenv removes key for the duration of the test. It must follow t.Setenv on the same key,
// which records the original value and restores it on cleanup.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset %s: %v", key, err)
	}
}
