package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ecosense/notifsync/pkg/common"
	"github.com/ecosense/notifsync/pkg/identity"
	"github.com/ecosense/notifsync/pkg/kv"
	"github.com/ecosense/notifsync/pkg/models"
)

//go:generate mockgen -source=engine.go -destination=mocks/mock_services.go -package=mocks

// IFetcher reads raw notification records from the role-appropriate remote
// endpoint. A fetch failure is returned as an error and never panics.
type IFetcher interface {
	FetchAdmin(ctx context.Context, credential string) ([]models.RawNotification, error)
	FetchOwn(ctx context.Context, credential string) ([]models.RawNotification, error)
}

// IConfigSource reads the per-user sensor/severity preference matrix.
type IConfigSource interface {
	FetchConfig(ctx context.Context, credential string) (models.UserConfig, error)
}

// IMutator pushes read-state changes to the server. All calls are
// best-effort; local state stays authoritative for the UI.
type IMutator interface {
	MarkRead(ctx context.Context, credential string, id string) error
	MarkAllRead(ctx context.Context, credential string) error
}

// CredentialSource yields the current opaque session credential, or "" when
// logged out.
type CredentialSource func() string

const DefaultPollPeriod = 5 * time.Second

// Engine is the notification synchronization and filtering engine. It polls
// the remote source, reconciles against persisted read/cleared state, applies
// the per-user visibility filter and publishes the visible list plus unread
// count. One Engine belongs to one session context; construct it on login and
// tear it down with ClearAllState on logout.
type Engine struct {
	kv          kv.Store
	credentials CredentialSource

	fetcher      IFetcher
	configSource IConfigSource
	mutator      IMutator
	scheduler    Scheduler
	clock        Clock

	pollPeriod time.Duration
	limiters   *MutationLimiterStore

	fetchSeq atomic.Uint64

	mu               sync.Mutex
	identity         *identity.Context
	role             string
	config           models.UserConfig
	configCredential string
	cleared          *ClearedSetTracker
	store            *NotificationStore
	publisher        *Publisher
	cancel           CancelFunc
	appliedSeq       uint64
}

type ServiceOpts struct {
	Fetcher      IFetcher
	ConfigSource IConfigSource
	Mutator      IMutator
	Scheduler    Scheduler
	Clock        Clock
}

func NewEngine(store kv.Store, credentials CredentialSource) *Engine {
	return &Engine{
		kv:          store,
		credentials: credentials,
		scheduler:   TickerScheduler{},
		clock:       SystemClock{},
		pollPeriod:  DefaultPollPeriod,
		limiters:    NewMutationLimiterStore(defaultMutationRate, defaultMutationBurst),
		publisher:   NewPublisher(),
	}
}

func (e *Engine) WithServices(opts ServiceOpts) *Engine {
	if opts.Fetcher != nil {
		e.fetcher = opts.Fetcher
	}
	if opts.ConfigSource != nil {
		e.configSource = opts.ConfigSource
	}
	if opts.Mutator != nil {
		e.mutator = opts.Mutator
	}
	if opts.Scheduler != nil {
		e.scheduler = opts.Scheduler
	}
	if opts.Clock != nil {
		e.clock = opts.Clock
	}
	return e
}

func (e *Engine) WithPollPeriod(period time.Duration) *Engine {
	if period > 0 {
		e.pollPeriod = period
	}
	return e
}

// Start resolves the identity from the current credential, loads persisted
// state for that identity, runs one immediate fetch-filter-publish cycle and
// arms the repeating poll. An already-running poll is stopped first. The role
// argument scopes filtering and persistence; when empty, the role carried by
// the credential is used.
func (e *Engine) Start(role string) error {
	e.Stop()

	credential := e.credentials()
	ident, err := identity.FromCredential(credential)
	if err != nil {
		return err
	}
	if role == "" {
		role = ident.Role
	}

	e.loadConfigIfNeeded(context.Background(), credential)

	e.mu.Lock()
	e.identity = ident
	e.role = role
	scope := scopeKey(role, ident.UserID)
	e.cleared = NewClearedSetTracker(e.kv, scope)
	e.store = NewNotificationStore(e.kv, scope)
	e.publishLocked()
	e.mu.Unlock()

	common.GetLoggerWith(
		common.LoggerNameNotifyEngine,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryScheduler),
	).Info("Monitoring started",
		zap.String("role", role),
		zap.Int("user_id", ident.UserID),
		zap.Duration("poll_period", e.pollPeriod))

	e.tick()

	e.mu.Lock()
	e.cancel = e.scheduler.ScheduleEvery(e.pollPeriod, e.tick)
	e.mu.Unlock()

	return nil
}

// Stop cancels future poll ticks. A fetch already in flight runs to
// completion; persisted and in-memory state stay as they are.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.cancel = nil
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// tick runs one fetch-filter-publish cycle. Every failure path leaves prior
// visible state unchanged; nothing raises to the caller.
//
// The poll timer fires independent of whether the previous cycle finished, so
// two cycles can overlap under slow networks. Each cycle carries a sequence
// number and a completed cycle is applied only if it is newer than the last
// applied one, which keeps a late response from overwriting fresher state.
func (e *Engine) tick() {
	logger := common.GetLoggerWith(
		common.LoggerNameNotifyEngine,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryFetch),
	)

	credential := e.credentials()
	if credential == "" {
		return
	}

	e.mu.Lock()
	role := e.role
	started := e.store != nil
	e.mu.Unlock()
	if !started || e.fetcher == nil {
		return
	}

	seq := e.fetchSeq.Add(1)

	var raw []models.RawNotification
	var err error
	if role == identity.RoleAdmin {
		raw, err = e.fetcher.FetchAdmin(context.Background(), credential)
	} else {
		raw, err = e.fetcher.FetchOwn(context.Background(), credential)
	}
	if err != nil {
		logger.Warn("Fetch cycle failed, keeping prior state", zap.Error(err))
		return
	}
	if len(raw) == 0 {
		return
	}

	e.apply(seq, raw)
}

func (e *Engine) apply(seq uint64, raw []models.RawNotification) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store == nil {
		return
	}
	if seq <= e.appliedSeq {
		common.GetLoggerWith(
			common.LoggerNameNotifyEngine,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryFetch),
		).Warn("Discarding stale fetch result",
			zap.Uint64("seq", seq),
			zap.Uint64("applied_seq", e.appliedSeq))
		return
	}
	e.appliedSeq = seq

	visible := e.runPipelineLocked(raw)
	e.store.Replace(visible)
	e.publishLocked()
}

// Notifications returns the current visible list.
func (e *Engine) Notifications() []models.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		return nil
	}
	return e.store.Current()
}

// UnreadCount returns the number of visible unread notifications.
func (e *Engine) UnreadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		return 0
	}
	return e.store.UnreadCount()
}

// Subscribe registers a snapshot channel; the current snapshot is replayed
// immediately. The returned func unsubscribes.
func (e *Engine) Subscribe(buffer int) (<-chan Snapshot, func()) {
	return e.publisher.Subscribe(buffer)
}

func (e *Engine) publishLocked() {
	snapshot := Snapshot{}
	if e.store != nil {
		snapshot.Notifications = e.store.Current()
		snapshot.UnreadCount = e.store.UnreadCount()
	}
	e.publisher.Publish(snapshot)
}

func scopeKey(role string, userID int) string {
	ctx := identity.Context{UserID: userID, Role: role}
	return ctx.ScopeKey()
}
