package main

import (
	"testing"
	"time"

	"meteoalerte/internal/config"
)

func TestServerTimeout(t *testing.T) {
	if got := serverTimeout("read_timeout", 5*time.Second); got != 15*time.Second {
		t.Errorf("read_timeout = %s, want 15s from config", got)
	}
	if got := serverTimeout("no_such_key", 5*time.Second); got != 5*time.Second {
		t.Errorf("missing key should fall back, got %s", got)
	}
}

func TestDefaultPort(t *testing.T) {
	if port := config.GetServerPort(); port != "8080" {
		t.Errorf("Expected default port 8080, got %s", port)
	}
}
