package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/ecosense/notifsync/pkg/common"
	"github.com/ecosense/notifsync/pkg/models"
)

// MarkAsRead marks one notification read. The remote PUT is best-effort;
// regardless of its outcome the local entity flips to read, the cleared set
// is reconciled, and the new state is persisted and republished.
func (e *Engine) MarkAsRead(ctx context.Context, id string) {
	e.remoteMutate(ctx, limiterMarkRead, func(credential string) error {
		return e.mutator.MarkRead(ctx, credential, id)
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		return
	}

	items := common.Mapper(e.store.Current(), func(n models.Notification) models.Notification {
		if n.ID == id {
			n.Read = true
		}
		return n
	})
	e.cleared.Reconcile(items)
	e.store.Replace(items)
	e.publishLocked()
}

// MarkAllAsRead marks every current notification read, batched remotely.
func (e *Engine) MarkAllAsRead(ctx context.Context) {
	e.remoteMutate(ctx, limiterMarkAllRead, func(credential string) error {
		return e.mutator.MarkAllRead(ctx, credential)
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		return
	}

	items := common.Mapper(e.store.Current(), func(n models.Notification) models.Notification {
		n.Read = true
		return n
	})
	e.cleared.Reconcile(items)
	e.store.Replace(items)
	e.publishLocked()
}

// ClearAllNotifications hides the read part of the visible list: read ids
// move into the cleared set, unread entries stay visible. The unread count
// does not change.
func (e *Engine) ClearAllNotifications() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		return
	}

	current := e.store.Current()

	readIDs := make([]string, 0, len(current))
	for _, n := range current {
		if n.Read {
			readIDs = append(readIDs, n.ID)
		}
	}
	e.cleared.AddAll(readIDs)

	unread := common.Filterer(current, func(n models.Notification) bool {
		return !n.Read
	})
	e.store.Replace(unread)
	e.publishLocked()
}

// ClearAllState wipes everything belonging to the session: the poll loop,
// the in-memory list and unread count, the cleared set, and both persisted
// keys. Called on logout.
func (e *Engine) ClearAllState() {
	e.Stop()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store != nil {
		e.store.RemovePersisted()
		e.store = nil
	}
	if e.cleared != nil {
		e.cleared.Purge()
		e.cleared = nil
	}
	e.identity = nil
	e.role = ""
	e.appliedSeq = 0
	e.publishLocked()
}

// remoteMutate pushes one best-effort mutation. Failures are logged and
// swallowed; the rate limiter caps how often a click storm reaches the
// server.
func (e *Engine) remoteMutate(ctx context.Context, limiterKey string, call func(credential string) error) {
	if e.mutator == nil {
		return
	}
	credential := e.credentials()
	if credential == "" {
		return
	}
	if !e.limiters.GetLimiter(limiterKey).Allow() {
		return
	}
	if err := call(credential); err != nil {
		common.GetLoggerWith(
			common.LoggerNameNotifyEngine,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryMutate),
		).Warn("Remote mutation failed, local state stays authoritative", zap.Error(err))
	}
}
