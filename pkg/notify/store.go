package notify

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/ecosense/notifsync/pkg/common"
	"github.com/ecosense/notifsync/pkg/kv"
	"github.com/ecosense/notifsync/pkg/models"
)

// NotificationStore holds the in-memory visible list and mirrors it into the
// key/value store under "notifications_{role}_{userId}". Construction eagerly
// loads whatever was persisted for the scope, so consumers see the last known
// list before the first fetch completes.
type NotificationStore struct {
	kv       kv.Store
	scopeKey string
	items    []models.Notification
}

func NewNotificationStore(store kv.Store, scopeKey string) *NotificationStore {
	s := &NotificationStore{kv: store, scopeKey: scopeKey}
	s.load()
	return s
}

func (s *NotificationStore) storageKey() string {
	return "notifications_" + s.scopeKey
}

func (s *NotificationStore) load() {
	value, found, err := s.kv.Get(s.storageKey())
	if err != nil || !found {
		return
	}
	var items []models.Notification
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		return
	}
	s.items = items
}

// Replace overwrites the visible list and persists it.
func (s *NotificationStore) Replace(visible []models.Notification) {
	s.items = visible

	serialized, err := json.Marshal(visible)
	if err != nil {
		return
	}
	if err := s.kv.Set(s.storageKey(), string(serialized)); err != nil {
		common.GetLoggerWith(
			common.LoggerNameNotifyEngine,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryStore),
		).Warn("Failed to persist notifications", zap.Error(err))
	}
}

// Current returns a copy of the visible list.
func (s *NotificationStore) Current() []models.Notification {
	items := make([]models.Notification, len(s.items))
	copy(items, s.items)
	return items
}

// UnreadCount is the number of visible entries with read=false.
func (s *NotificationStore) UnreadCount() int {
	return common.Reducer(s.items, func(acc int, n models.Notification) int {
		if !n.Read {
			return acc + 1
		}
		return acc
	}, 0)
}

// RemovePersisted drops the persisted mirror for this scope.
func (s *NotificationStore) RemovePersisted() {
	if err := s.kv.Remove(s.storageKey()); err != nil {
		common.GetLoggerWith(
			common.LoggerNameNotifyEngine,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryStore),
		).Warn("Failed to remove persisted notifications", zap.Error(err))
	}
}
