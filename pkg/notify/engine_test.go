package notify

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zapcore"

	"github.com/ecosense/notifsync/pkg/api"
	"github.com/ecosense/notifsync/pkg/common"
	"github.com/ecosense/notifsync/pkg/identity"
	"github.com/ecosense/notifsync/pkg/kv"
	"github.com/ecosense/notifsync/pkg/models"
	_ "github.com/ecosense/notifsync/pkg/testing"
)

func TestStart_InvalidCredential(t *testing.T) {
	common.SetTestLoggerNop()

	credential := "not-a-token"
	ctrl, engine, _, _, _, scheduler := GetMockEngineWithMemoryKV(t, kv.NewMemory(), &credential, true)
	defer ctrl.Finish()

	err := engine.Start(identity.RoleMember)
	require.Error(t, err)
	assert.ErrorIs(t, err, identity.ErrInvalidCredential)
	assert.Equal(t, 0, scheduler.Armed())
}

func TestStart_WarmStartFromPersistedState(t *testing.T) {
	common.SetTestLoggerNop()

	store := kv.NewMemory()
	err := store.Set("notifications_member_7",
		`[{"id":"w1","title":"Stored","severity":"info","sensor_code":"mq135","read":false,"user_id":7}]`)
	require.NoError(t, err)

	credential := MakeTestCredential(t, "usuario", 7)
	ctrl, engine, mockFetcher, _, _, scheduler := GetMockEngineWithMemoryKV(t, store, &credential, true)
	defer ctrl.Finish()

	// first cycle finds nothing new; the warm-started list must survive
	mockFetcher.EXPECT().FetchOwn(gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)

	require.NoError(t, engine.Start(identity.RoleMember))

	notifications := engine.Notifications()
	require.Len(t, notifications, 1)
	assert.Equal(t, "w1", notifications[0].ID)
	assert.Equal(t, 1, engine.UnreadCount())
	assert.Equal(t, 1, scheduler.Armed())
}

func TestStop_PreventsFutureTicks(t *testing.T) {
	common.SetTestLoggerNop()

	credential := MakeTestCredential(t, "usuario", 7)
	ctrl, engine, mockFetcher, _, _, scheduler := GetMockEngineWithMemoryKV(t, kv.NewMemory(), &credential, true)
	defer ctrl.Finish()

	// only the immediate cycle at Start; ticks after Stop must not fetch
	mockFetcher.EXPECT().FetchOwn(gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)

	require.NoError(t, engine.Start(identity.RoleMember))
	engine.Stop()
	assert.Equal(t, 0, scheduler.Armed())

	scheduler.Tick()
	scheduler.Tick()
}

func TestTick_FetchFailureKeepsPriorState(t *testing.T) {
	common.SetTestLoggerNop()

	credential := MakeTestCredential(t, "usuario", 7)
	ctrl, engine, mockFetcher, _, _, scheduler := GetMockEngineWithMemoryKV(t, kv.NewMemory(), &credential, true)
	defer ctrl.Finish()

	first := mockFetcher.EXPECT().FetchOwn(gomock.Any(), gomock.Any()).Return([]models.RawNotification{
		{"id": "a", "titulo": "Alerta", "leida": false, "usuario_id": float64(7)},
	}, nil)
	mockFetcher.EXPECT().FetchOwn(gomock.Any(), gomock.Any()).
		Return(nil, &api.FetchError{Endpoint: "/notificaciones/me", Err: errors.New("boom")}).
		After(first)

	require.NoError(t, engine.Start(identity.RoleMember))
	require.Len(t, engine.Notifications(), 1)

	scheduler.Tick()

	notifications := engine.Notifications()
	require.Len(t, notifications, 1)
	assert.Equal(t, "a", notifications[0].ID)
	assert.Equal(t, 1, engine.UnreadCount())
}

func TestTick_FetchFailure_WithLog(t *testing.T) {
	var buf = &bytes.Buffer{}
	common.SetTestCaptureLogger(buf, zapcore.WarnLevel)

	credential := MakeTestCredential(t, "usuario", 7)
	ctrl, engine, mockFetcher, _, _, _ := GetMockEngineWithMemoryKV(t, kv.NewMemory(), &credential, true)
	defer ctrl.Finish()

	mockFetcher.EXPECT().FetchOwn(gomock.Any(), gomock.Any()).
		Return(nil, &api.FetchError{Endpoint: "/notificaciones/me", Err: errors.New("boom")})

	require.NoError(t, engine.Start(identity.RoleMember))

	logs := ParseLogs(buf)
	found := false
	for _, log := range logs {
		lobj := log.(map[string]any)
		if lobj["category"] == "fetch" &&
			lobj["logger"] == "notify_engine" &&
			lobj["msg"] == "Fetch cycle failed, keeping prior state" {
			found = true
		}
	}
	assert.True(t, found, "log not found")
}

func TestTick_EmptyFetchKeepsPriorState(t *testing.T) {
	common.SetTestLoggerNop()

	credential := MakeTestCredential(t, "usuario", 7)
	ctrl, engine, mockFetcher, _, _, scheduler := GetMockEngineWithMemoryKV(t, kv.NewMemory(), &credential, true)
	defer ctrl.Finish()

	first := mockFetcher.EXPECT().FetchOwn(gomock.Any(), gomock.Any()).Return([]models.RawNotification{
		{"id": "a", "titulo": "Alerta", "leida": false, "usuario_id": float64(7)},
	}, nil)
	mockFetcher.EXPECT().FetchOwn(gomock.Any(), gomock.Any()).Return([]models.RawNotification{}, nil).After(first)

	require.NoError(t, engine.Start(identity.RoleMember))
	scheduler.Tick()

	require.Len(t, engine.Notifications(), 1)
}

func TestApply_DiscardsStaleSequence(t *testing.T) {
	common.SetTestLoggerNop()

	credential := MakeTestCredential(t, "usuario", 7)
	ctrl, engine, mockFetcher, _, _, _ := GetMockEngineWithMemoryKV(t, kv.NewMemory(), &credential, true)
	defer ctrl.Finish()

	mockFetcher.EXPECT().FetchOwn(gomock.Any(), gomock.Any()).Return(nil, nil)
	require.NoError(t, engine.Start(identity.RoleMember))

	newer := []models.RawNotification{{"id": "new", "leida": false, "usuario_id": float64(7)}}
	older := []models.RawNotification{{"id": "old", "leida": false, "usuario_id": float64(7)}}

	// tick 2 finished after tick 3; its result must not win
	engine.apply(3, newer)
	engine.apply(2, older)

	notifications := engine.Notifications()
	require.Len(t, notifications, 1)
	assert.Equal(t, "new", notifications[0].ID)
}

func TestStart_ConfigMemoizedPerCredential(t *testing.T) {
	common.SetTestLoggerNop()

	credential := MakeTestCredential(t, "usuario", 7)
	ctrl, engine, mockFetcher, mockConfigSource, _, _ := GetMockEngineWithMemoryKV(t, kv.NewMemory(), &credential, false)
	defer ctrl.Finish()

	mockFetcher.EXPECT().FetchOwn(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	// same credential across restarts: one fetch
	mockConfigSource.EXPECT().FetchConfig(gomock.Any(), gomock.Eq(credential)).
		Return(models.UserConfig{}, nil).Times(1)
	require.NoError(t, engine.Start(identity.RoleMember))
	require.NoError(t, engine.Start(identity.RoleMember))

	// re-login with a fresh credential invalidates the memo
	credential = MakeTestCredential(t, "usuario", 7)
	mockConfigSource.EXPECT().FetchConfig(gomock.Any(), gomock.Eq(credential)).
		Return(models.UserConfig{}, nil).Times(1)
	require.NoError(t, engine.Start(identity.RoleMember))
}

func TestStart_ConfigFetchFailureAllowsAll(t *testing.T) {
	common.SetTestLoggerNop()

	credential := MakeTestCredential(t, "usuario", 7)
	ctrl, engine, mockFetcher, mockConfigSource, _, _ := GetMockEngineWithMemoryKV(t, kv.NewMemory(), &credential, false)
	defer ctrl.Finish()

	mockConfigSource.EXPECT().FetchConfig(gomock.Any(), gomock.Any()).
		Return(nil, &api.FetchError{Endpoint: "/configuracion-notificaciones/me", Err: errors.New("down")})
	mockFetcher.EXPECT().FetchOwn(gomock.Any(), gomock.Any()).Return([]models.RawNotification{
		{"id": "a", "tipo": "danger", "sensor_codigo": "mq7", "leida": false, "usuario_id": float64(7)},
	}, nil)

	require.NoError(t, engine.Start(identity.RoleMember))

	// no config loaded means allow by default
	require.Len(t, engine.Notifications(), 1)
}

func TestRoleScoping(t *testing.T) {
	common.SetTestLoggerNop()

	raw := []models.RawNotification{
		{"id": "mine", "leida": false, "usuario_id": float64(7)},
		{"id": "theirs", "leida": false, "usuario_id": float64(8)},
	}

	t.Run("member sees only own", func(t *testing.T) {
		credential := MakeTestCredential(t, "usuario", 7)
		ctrl, engine, mockFetcher, _, _, _ := GetMockEngineWithMemoryKV(t, kv.NewMemory(), &credential, true)
		defer ctrl.Finish()

		mockFetcher.EXPECT().FetchOwn(gomock.Any(), gomock.Any()).Return(raw, nil)
		require.NoError(t, engine.Start(identity.RoleMember))

		notifications := engine.Notifications()
		require.Len(t, notifications, 1)
		assert.Equal(t, "mine", notifications[0].ID)
	})

	t.Run("admin sees all", func(t *testing.T) {
		credential := MakeTestCredential(t, "admin", 1)
		ctrl, engine, mockFetcher, _, _, _ := GetMockEngineWithMemoryKV(t, kv.NewMemory(), &credential, true)
		defer ctrl.Finish()

		mockFetcher.EXPECT().FetchAdmin(gomock.Any(), gomock.Any()).Return(raw, nil)
		require.NoError(t, engine.Start(identity.RoleAdmin))

		assert.Len(t, engine.Notifications(), 2)
	})
}

func TestUnreadCountConsistency(t *testing.T) {
	common.SetTestLoggerNop()

	credential := MakeTestCredential(t, "usuario", 7)
	ctrl, engine, mockFetcher, _, _, _ := GetMockEngineWithMemoryKV(t, kv.NewMemory(), &credential, true)
	defer ctrl.Finish()

	mockFetcher.EXPECT().FetchOwn(gomock.Any(), gomock.Any()).Return([]models.RawNotification{
		{"id": "a", "leida": false, "usuario_id": float64(7)},
		{"id": "b", "leida": true, "usuario_id": float64(7)},
		{"id": "c", "leida": false, "usuario_id": float64(7)},
	}, nil)

	require.NoError(t, engine.Start(identity.RoleMember))

	visibleUnread := 0
	for _, n := range engine.Notifications() {
		if !n.Read {
			visibleUnread++
		}
	}
	assert.Equal(t, visibleUnread, engine.UnreadCount())
	assert.Equal(t, 2, engine.UnreadCount())
}
