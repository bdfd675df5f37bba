package platform

import (
	"context"
	"testing"

	"github.com/spf13/viper"

	"meteoalerte/internal/config"
	"meteoalerte/internal/notify"
)

func TestCurrentMapsConfiguredPermission(t *testing.T) {
	tests := []struct {
		configured string
		want       notify.PermissionState
	}{
		{"unsupported", notify.PermissionUnsupported},
		{"granted", notify.PermissionGranted},
		{"denied", notify.PermissionDenied},
		{"prompt", notify.PermissionPrompt},
		{"garbage", notify.PermissionPrompt},
	}

	adapter := New()
	for _, tt := range tests {
		viper.Set("platform.notification_permission", tt.configured)
		config.ReloadConfigForTest()
		if got := adapter.Current(context.Background()); got != tt.want {
			t.Errorf("Current with %q = %s, want %s", tt.configured, got, tt.want)
		}
	}
}

func TestRequestHonorsGrantDecision(t *testing.T) {
	adapter := New()

	viper.Set("platform.notification_permission", "prompt")
	viper.Set("platform.grant_on_request", true)
	config.ReloadConfigForTest()
	state, err := adapter.Request(context.Background())
	if err != nil || state != notify.PermissionGranted {
		t.Errorf("Request = (%s, %v), want granted", state, err)
	}

	viper.Set("platform.grant_on_request", false)
	config.ReloadConfigForTest()
	state, _ = adapter.Request(context.Background())
	if state != notify.PermissionDenied {
		t.Errorf("Request = %s, want denied", state)
	}

	// A settled answer is returned as-is, never re-prompted.
	viper.Set("platform.notification_permission", "denied")
	viper.Set("platform.grant_on_request", true)
	config.ReloadConfigForTest()
	state, _ = adapter.Request(context.Background())
	if state != notify.PermissionDenied {
		t.Errorf("Request after denial = %s, want denied", state)
	}
}

func TestOnlineDefaultsTrue(t *testing.T) {
	adapter := New()

	// platform.online is absent from the config files.
	if !adapter.Online(context.Background()) {
		t.Error("Online should default to true when unconfigured")
	}

	viper.Set("platform.online", false)
	config.ReloadConfigForTest()
	if adapter.Online(context.Background()) {
		t.Error("Online should report the configured value")
	}
}

func TestPrefersDark(t *testing.T) {
	adapter := New()

	viper.Set("platform.prefers_dark", true)
	config.ReloadConfigForTest()
	if !adapter.PrefersDark(context.Background()) {
		t.Error("PrefersDark should report the configured value")
	}
}
