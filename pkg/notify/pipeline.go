package notify

import (
	"math"
	"strconv"
	"time"

	z "github.com/Oudwins/zog"
	"go.uber.org/zap"

	"github.com/ecosense/notifsync/pkg/common"
	"github.com/ecosense/notifsync/pkg/identity"
	"github.com/ecosense/notifsync/pkg/models"
)

var normalizedSchema = z.Struct(z.Shape{
	"ID":         z.String().Min(1).Required(),
	"SensorCode": z.String().Required(),
	"Title":      z.String().Required(),
})

// runPipelineLocked turns one fetch result into the new visible list:
// normalize, reconcile the cleared set against fresh read state, then filter
// by user config, cleared state and role scope. Each stage only reduces the
// previous stage's output.
func (e *Engine) runPipelineLocked(raw []models.RawNotification) []models.Notification {
	normalized := make([]models.Notification, 0, len(raw))
	for _, record := range raw {
		n, ok := e.normalize(record)
		if !ok {
			continue
		}
		normalized = append(normalized, n)
	}

	e.cleared.Reconcile(normalized)

	visible := common.Filterer(normalized, func(n models.Notification) bool {
		if !e.config.Allows(n.SensorCode, n.Severity.Bucket()) {
			return false
		}
		if e.cleared.Contains(n.ID) && n.Read {
			return false
		}
		return true
	})

	if e.role == identity.RoleMember && e.identity != nil && e.identity.UserID != 0 {
		userID := e.identity.UserID
		visible = common.Filterer(visible, func(n models.Notification) bool {
			return n.UserID == userID
		})
	}

	return visible
}

// normalize maps one raw server record onto the canonical Notification shape.
// The server emits Spanish keys on current endpoints and English keys on
// older ones, so every field resolves through a fixed fallback order.
func (e *Engine) normalize(raw models.RawNotification) (models.Notification, bool) {
	n := models.Notification{
		ID:         pickString(raw, "id", "notification_id", "ID"),
		Title:      pickStringDefault(raw, "Notification", "titulo", "title"),
		Message:    pickStringDefault(raw, "", "mensaje", "message"),
		Severity:   parseSeverity(pickString(raw, "tipo", "type")),
		SensorCode: pickStringDefault(raw, "mq135", "sensor_codigo", "sensor"),
		Value:      pickFloat(raw, "valor", "value"),
		CreatedAt:  pickTime(raw, e.clock.Now(), "creado_en", "created_at"),
		Read:       pickBool(raw, "leida", "read"),
		UserID:     int(pickFloat(raw, "usuario_id", "user_id")),
		UserName:   pickUserName(raw),
	}

	if issues := normalizedSchema.Validate(&n); issues != nil {
		common.GetLoggerWith(
			common.LoggerNameNotifyEngine,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryFilter),
		).Warn("Dropping malformed notification record", zap.Reflect("record", raw))
		return models.Notification{}, false
	}
	return n, true
}

func parseSeverity(value string) models.Severity {
	switch models.Severity(value) {
	case models.SeverityWarning:
		return models.SeverityWarning
	case models.SeverityDanger:
		return models.SeverityDanger
	default:
		return models.SeverityInfo
	}
}

func stringify(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, v != ""
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10), true
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

func pickString(raw models.RawNotification, keys ...string) string {
	for _, key := range keys {
		if s, ok := stringify(raw[key]); ok {
			return s
		}
	}
	return ""
}

func pickStringDefault(raw models.RawNotification, fallback string, keys ...string) string {
	if s := pickString(raw, keys...); s != "" {
		return s
	}
	return fallback
}

func pickFloat(raw models.RawNotification, keys ...string) float64 {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case float64:
			return v
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func pickBool(raw models.RawNotification, keys ...string) bool {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case bool:
			return v
		case float64:
			return v != 0
		}
	}
	return false
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func pickTime(raw models.RawNotification, fallback time.Time, keys ...string) time.Time {
	for _, key := range keys {
		s, ok := raw[key].(string)
		if !ok {
			continue
		}
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts
			}
		}
	}
	return fallback
}

// pickUserName resolves the nested "usuario.nombre" shape first, then the
// flat legacy key.
func pickUserName(raw models.RawNotification) string {
	if user, ok := raw["usuario"].(map[string]any); ok {
		if name, ok := stringify(user["nombre"]); ok {
			return name
		}
	}
	if name, ok := stringify(raw["user_name"]); ok {
		return name
	}
	return "User"
}
