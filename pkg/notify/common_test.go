package notify

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/mock/gomock"

	"github.com/ecosense/notifsync/pkg/identity"
	"github.com/ecosense/notifsync/pkg/kv"
	"github.com/ecosense/notifsync/pkg/models"
	"github.com/ecosense/notifsync/pkg/notify/mocks"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func MakeTestCredential(t *testing.T, role string, userID int) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, identity.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: userID,
		Role:   role,
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign test credential: %v", err)
	}
	return signed
}

func GetMockEngineWithMemoryKV(t *testing.T, store kv.Store, credential *string, allowAllConfig bool) (
	*gomock.Controller,
	*Engine,
	*mocks.MockIFetcher,
	*mocks.MockIConfigSource,
	*mocks.MockIMutator,
	*ManualScheduler,
) {
	ctrl := gomock.NewController(t)

	mockFetcher := mocks.NewMockIFetcher(ctrl)
	mockConfigSource := mocks.NewMockIConfigSource(ctrl)
	mockMutator := mocks.NewMockIMutator(ctrl)
	scheduler := NewManualScheduler()

	if allowAllConfig {
		mockConfigSource.
			EXPECT().
			FetchConfig(gomock.Any(), gomock.Any()).
			Return(models.UserConfig{}, nil).
			AnyTimes()
	}

	engine := NewEngine(store, func() string { return *credential }).
		WithServices(ServiceOpts{
			Fetcher:      mockFetcher,
			ConfigSource: mockConfigSource,
			Mutator:      mockMutator,
			Scheduler:    scheduler,
			Clock:        fixedClock{now: testNow},
		})

	return ctrl, engine, mockFetcher, mockConfigSource, mockMutator, scheduler
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
