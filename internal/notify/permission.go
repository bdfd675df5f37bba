// Package notify owns the notification permission state machine and the
// dispatch path that turns alert intents into delivered notifications.
package notify

import (
	"context"
	"sync"

	"meteoalerte/internal/model"
)

// PermissionState is the platform notification permission.
type PermissionState string

const (
	PermissionUnsupported PermissionState = "unsupported"
	PermissionPrompt      PermissionState = "prompt"
	PermissionGranted     PermissionState = "granted"
	PermissionDenied      PermissionState = "denied"
)

// PermissionPlatform is the platform-level permission API. The platform is
// the source of truth; its answers are never persisted.
type PermissionPlatform interface {
	// Current reports the present permission without prompting.
	Current(ctx context.Context) PermissionState
	// Request prompts the user and suspends until they answer. The
	// platform itself refuses to re-prompt once the answer is denied.
	Request(ctx context.Context) (PermissionState, error)
}

// PermissionManager tracks the permission state and serializes explicit
// permission requests: only one may be outstanding at a time.
type PermissionManager struct {
	platform PermissionPlatform

	mu      sync.Mutex
	state   PermissionState
	pending bool
}

// NewPermissionManager initializes the manager from the platform's
// current status.
func NewPermissionManager(ctx context.Context, platform PermissionPlatform) *PermissionManager {
	return &PermissionManager{
		platform: platform,
		state:    platform.Current(ctx),
	}
}

// State returns the last known permission state.
func (m *PermissionManager) State() PermissionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Granted reports whether delivery is currently permitted.
func (m *PermissionManager) Granted() bool {
	return m.State() == PermissionGranted
}

// Request runs an explicit, user-triggered permission request. The state
// is always re-derived from the platform, never assumed from a cached
// value. Re-issuing while one is pending is rejected; a denied answer is
// surfaced because the request was explicit.
func (m *PermissionManager) Request(ctx context.Context) (PermissionState, error) {
	m.mu.Lock()
	if m.state == PermissionUnsupported {
		m.mu.Unlock()
		return PermissionUnsupported, model.NotificationError(
			model.ErrCodeNotificationFailed, "notifications are not supported on this platform", nil)
	}
	if m.pending {
		m.mu.Unlock()
		return m.State(), model.NotificationError(
			model.ErrCodeNotificationPending, "a permission request is already pending", nil)
	}
	m.pending = true
	m.mu.Unlock()

	state, err := m.platform.Request(ctx)

	m.mu.Lock()
	m.pending = false
	if err == nil {
		m.state = state
	}
	m.mu.Unlock()

	if err != nil {
		return m.State(), model.NotificationError(
			model.ErrCodeNotificationFailed, "permission request failed", err)
	}
	if state == PermissionDenied {
		return state, model.NotificationError(
			model.ErrCodeNotificationDenied, "notification permission was denied", nil)
	}
	return state, nil
}
