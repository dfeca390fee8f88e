package notify

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/ecosense/notifsync/pkg/common"
	"github.com/ecosense/notifsync/pkg/kv"
	"github.com/ecosense/notifsync/pkg/models"
)

// ClearedSetTracker persists the set of notification ids the user dismissed
// while they were read. An id stays in the set only as long as the
// notification's last observed read state is true; once the same id is
// fetched unread again the id leaves the set and the notification reappears.
//
// The set is persisted under a key scoped by role and user id, so one user's
// dismissed state never leaks to another session on shared hardware.
type ClearedSetTracker struct {
	kv       kv.Store
	scopeKey string
	ids      map[string]struct{}
}

func NewClearedSetTracker(store kv.Store, scopeKey string) *ClearedSetTracker {
	t := &ClearedSetTracker{
		kv:       store,
		scopeKey: scopeKey,
		ids:      make(map[string]struct{}),
	}
	t.load()
	return t
}

func (t *ClearedSetTracker) storageKey() string {
	return "cleared_" + t.scopeKey
}

func (t *ClearedSetTracker) load() {
	value, found, err := t.kv.Get(t.storageKey())
	if err != nil || !found {
		return
	}
	var ids []string
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		return
	}
	for _, id := range ids {
		t.ids[id] = struct{}{}
	}
}

func (t *ClearedSetTracker) save() {
	ids := make([]string, 0, len(t.ids))
	for id := range t.ids {
		ids = append(ids, id)
	}
	serialized, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := t.kv.Set(t.storageKey(), string(serialized)); err != nil {
		common.GetLoggerWith(
			common.LoggerNameNotifyEngine,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryCleared),
		).Warn("Failed to persist cleared set", zap.Error(err))
	}
}

func (t *ClearedSetTracker) Contains(id string) bool {
	_, ok := t.ids[id]
	return ok
}

func (t *ClearedSetTracker) Len() int {
	return len(t.ids)
}

// AddAll marks ids as cleared and persists the set.
func (t *ClearedSetTracker) AddAll(ids []string) {
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		t.ids[id] = struct{}{}
	}
	t.save()
}

// Reconcile removes from the set every id whose notification is observed
// unread again, persisting when anything changed. Runs on every poll cycle,
// not only on explicit clear actions.
func (t *ClearedSetTracker) Reconcile(notifications []models.Notification) {
	changed := false
	for _, n := range notifications {
		if n.Read {
			continue
		}
		if _, ok := t.ids[n.ID]; ok {
			delete(t.ids, n.ID)
			changed = true
		}
	}
	if changed {
		t.save()
	}
}

// Purge empties the set and removes its persisted key.
func (t *ClearedSetTracker) Purge() {
	t.ids = make(map[string]struct{})
	if err := t.kv.Remove(t.storageKey()); err != nil {
		common.GetLoggerWith(
			common.LoggerNameNotifyEngine,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryCleared),
		).Warn("Failed to remove cleared set", zap.Error(err))
	}
}
