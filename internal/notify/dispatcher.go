package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"meteoalerte/internal/metrics"
	"meteoalerte/internal/model"
)

// AlertTag derives the deduplication tag for an alert intent. Identical
// kind+location always yields the same tag so repeated alerts replace
// rather than stack; different kinds or locations never collide.
func AlertTag(kind model.AlertKind, location string) string {
	return fmt.Sprintf("alert:%s:%s", kind, location)
}

// RefreshTag derives the tag for the fetch-confirmation summary. Refresh
// summaries live in their own tag namespace so they never coalesce with
// alerts.
func RefreshTag(location string) string {
	return "refresh:" + location
}

// Dispatcher delivers notifications through the background channel when
// possible, falling back to the foreground channel. Delivery is gated by
// the permission state.
type Dispatcher struct {
	perms      *PermissionManager
	background Sink
	foreground Sink
	log        *zap.SugaredLogger
	now        func() time.Time
}

func NewDispatcher(perms *PermissionManager, background, foreground Sink, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		perms:      perms,
		background: background,
		foreground: foreground,
		log:        log,
		now:        time.Now,
	}
}

// Dispatch attempts delivery of one titled notification. A silent no-op
// unless permission is granted. A background failure is logged and does
// not prevent the foreground attempt; an undelivered notification is
// never an error for the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, title, body, tag string) {
	if !d.perms.Granted() {
		return
	}

	n := model.Notification{
		ID:        uuid.NewString(),
		Tag:       tag,
		Title:     title,
		Body:      body,
		CreatedAt: d.now(),
	}

	if d.background != nil {
		err := d.background.Deliver(ctx, n)
		metrics.NotificationsTotal.WithLabelValues(d.background.Name(), statusLabel(err)).Inc()
		if err == nil {
			return
		}
		d.log.Warnw("background notification channel failed, falling back",
			"tag", tag, "error", err)
	}

	err := d.foreground.Deliver(ctx, n)
	metrics.NotificationsTotal.WithLabelValues(d.foreground.Name(), statusLabel(err)).Inc()
	if err != nil {
		d.log.Warnw("foreground notification delivery failed", "tag", tag, "error", err)
	}
}

// DispatchAlert formats and delivers one alert intent.
func (d *Dispatcher) DispatchAlert(ctx context.Context, intent model.AlertIntent) {
	metrics.AlertsEmittedTotal.WithLabelValues(string(intent.Kind)).Inc()
	switch intent.Kind {
	case model.AlertRain:
		d.Dispatch(ctx,
			fmt.Sprintf("Rain expected in %s", intent.Location),
			fmt.Sprintf("Rain is expected in about %dh.", intent.LeadTimeHours),
			AlertTag(intent.Kind, intent.Location))
	case model.AlertHeat:
		d.Dispatch(ctx,
			fmt.Sprintf("High temperature in %s", intent.Location),
			fmt.Sprintf("Up to %.0f°C expected in the next hours.", intent.PeakTemperature),
			AlertTag(intent.Kind, intent.Location))
	}
}

// DispatchRefreshSummary delivers the fetch-confirmation notification
// that accompanies every successful weather fetch.
func (d *Dispatcher) DispatchRefreshSummary(ctx context.Context, location string, snapshot model.WeatherSnapshot) {
	d.Dispatch(ctx,
		fmt.Sprintf("Weather updated for %s", location),
		fmt.Sprintf("%.1f°C, wind %.0f km/h", snapshot.Temperature, snapshot.WindSpeed),
		RefreshTag(location))
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
