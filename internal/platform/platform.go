// Package platform adapts host-environment signals (notification
// permission, color-scheme preference, connectivity) for the session and
// notification layers. In deployment these come from configuration; the
// engine never reads them ambiently.
package platform

import (
	"context"

	"meteoalerte/internal/config"
	"meteoalerte/internal/notify"
)

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

// Current reports the configured notification permission without
// prompting. Defaults to prompt.
func (a *Adapter) Current(_ context.Context) notify.PermissionState {
	switch config.GetPlatformPermission() {
	case "unsupported":
		return notify.PermissionUnsupported
	case "granted":
		return notify.PermissionGranted
	case "denied":
		return notify.PermissionDenied
	default:
		return notify.PermissionPrompt
	}
}

// Request answers an explicit permission prompt with the configured
// decision. Once denied the answer stays denied; the platform never
// re-prompts.
func (a *Adapter) Request(ctx context.Context) (notify.PermissionState, error) {
	state := a.Current(ctx)
	if state != notify.PermissionPrompt {
		return state, nil
	}
	if config.GetPlatformGrantOnRequest() {
		return notify.PermissionGranted, nil
	}
	return notify.PermissionDenied, nil
}

// PrefersDark reports the configured dark-mode preference.
func (a *Adapter) PrefersDark(_ context.Context) bool {
	return config.GetPlatformPrefersDark()
}

// Online reports startup connectivity; later changes arrive as signals
// through the session API.
func (a *Adapter) Online(_ context.Context) bool {
	return config.GetPlatformOnline()
}
