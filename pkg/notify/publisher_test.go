package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecosense/notifsync/pkg/models"
)

func TestPublisher_ReplaysLastSnapshotOnSubscribe(t *testing.T) {
	pub := NewPublisher()
	pub.Publish(Snapshot{UnreadCount: 3})

	ch, unsub := pub.Subscribe(4)
	defer unsub()

	snapshot := <-ch
	assert.Equal(t, 3, snapshot.UnreadCount)
}

func TestPublisher_FanoutToAllSubscribers(t *testing.T) {
	pub := NewPublisher()

	ch1, unsub1 := pub.Subscribe(4)
	ch2, unsub2 := pub.Subscribe(4)
	defer unsub1()
	defer unsub2()

	// drain the initial replay
	<-ch1
	<-ch2

	pub.Publish(Snapshot{
		Notifications: []models.Notification{{ID: "a"}},
		UnreadCount:   1,
	})

	s1 := <-ch1
	s2 := <-ch2
	require.Len(t, s1.Notifications, 1)
	assert.Equal(t, s1, s2)
}

func TestPublisher_UnsubscribedChannelStopsReceiving(t *testing.T) {
	pub := NewPublisher()

	ch, unsub := pub.Subscribe(4)
	<-ch
	unsub()

	pub.Publish(Snapshot{UnreadCount: 9})

	// channel is closed after unsubscribe
	_, open := <-ch
	assert.False(t, open)
}

func TestPublisher_SlowSubscriberDropsNotBlocks(t *testing.T) {
	pub := NewPublisher()

	_, unsub := pub.Subscribe(1)
	defer unsub()

	// buffer holds the replay; further publishes must not block
	for i := 0; i < 20; i++ {
		pub.Publish(Snapshot{UnreadCount: i})
	}
	assert.Equal(t, 19, pub.Last().UnreadCount)
}
