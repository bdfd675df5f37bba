// Package session tracks the cross-cutting state that gates or alters
// engine behavior: theme, connectivity and notification permission.
package session

import (
	"context"
	"sync"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"meteoalerte/internal/model"
	"meteoalerte/internal/notify"
)

// ThemeKey is the persisted-store key holding the theme value.
const ThemeKey = "theme"

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Platform exposes the ambient signals the session reads at startup.
type Platform interface {
	// PrefersDark reports the platform dark-mode preference.
	PrefersDark(ctx context.Context) bool
	// Online reports current connectivity.
	Online(ctx context.Context) bool
}

// State is the session snapshot exposed to the UI layer.
type State struct {
	Theme                  Theme                  `json:"theme"`
	NotificationPermission notify.PermissionState `json:"notification_permission"`
	IsOnline               bool                   `json:"is_online"`
}

type redisClient interface {
	Get(ctx context.Context, key string) *redisv9.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redisv9.StatusCmd
}

// Manager owns the session values and the persistence of the theme.
// Connectivity and permission are derived from the platform and never
// persisted.
type Manager struct {
	client redisClient
	perms  *notify.PermissionManager
	log    *zap.SugaredLogger

	mu     sync.Mutex
	theme  Theme
	online bool
}

// NewManager initializes the session: persisted theme if present, else
// the platform dark-mode preference, else light; connectivity from the
// platform's current status.
func NewManager(ctx context.Context, client *redisv9.Client, platform Platform, perms *notify.PermissionManager, log *zap.SugaredLogger) *Manager {
	m := &Manager{
		client: client,
		perms:  perms,
		log:    log,
		theme:  ThemeLight,
		online: platform.Online(ctx),
	}

	val, err := client.Get(ctx, ThemeKey).Result()
	if err == nil && (Theme(val) == ThemeLight || Theme(val) == ThemeDark) {
		m.theme = Theme(val)
		return m
	}
	if err == nil {
		log.Warnw("corrupt theme value, using platform preference", "value", val)
	} else if err != redisv9.Nil {
		log.Warnw("could not load theme", "error", err)
	}
	if platform.PrefersDark(ctx) {
		m.theme = ThemeDark
	}
	return m
}

// State returns the current session snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{
		Theme:                  m.theme,
		NotificationPermission: m.perms.State(),
		IsOnline:               m.online,
	}
}

// SetTheme applies an explicit toggle and persists it immediately.
// Persistence failures are logged, not surfaced.
func (m *Manager) SetTheme(ctx context.Context, theme Theme) error {
	if theme != ThemeLight && theme != ThemeDark {
		return model.ValidationError(model.ErrCodeValidationBadTheme, "theme must be light or dark")
	}

	m.mu.Lock()
	m.theme = theme
	m.mu.Unlock()

	if err := m.client.Set(ctx, ThemeKey, string(theme), 0).Err(); err != nil {
		m.log.Warnw("could not persist theme", "error", model.PersistenceError(err))
	}
	return nil
}

// SetOnline records a platform connectivity-change signal. Purely
// observational; nothing is gated here.
func (m *Manager) SetOnline(online bool) {
	m.mu.Lock()
	m.online = online
	m.mu.Unlock()
}

// Online reports the last known connectivity.
func (m *Manager) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// RequestPermission runs an explicit notification permission request
// through the permission manager.
func (m *Manager) RequestPermission(ctx context.Context) (notify.PermissionState, error) {
	return m.perms.Request(ctx)
}
