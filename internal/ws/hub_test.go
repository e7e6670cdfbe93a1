package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/notify"
)

func TestHubTracksConnectionsPerUser(t *testing.T) {
	hub := NewHub()

	c1 := NewClient(hub, nil, 1)
	c2 := NewClient(hub, nil, 1)
	c3 := NewClient(hub, nil, 2)

	hub.Register(c1)
	hub.Register(c2)
	hub.Register(c3)

	require.Equal(t, 2, hub.ConnectionCount(1))
	require.Equal(t, 1, hub.ConnectionCount(2))
	require.Len(t, hub.ChannelsFor(1), 2)
	require.Empty(t, hub.ChannelsFor(99))

	hub.Unregister(c1)
	require.Equal(t, 1, hub.ConnectionCount(1))

	// Unregistering twice is harmless.
	hub.Unregister(c1)
	require.Equal(t, 1, hub.ConnectionCount(1))
}

func TestClientSendAfterUnregisterFails(t *testing.T) {
	hub := NewHub()
	c := NewClient(hub, nil, 1)
	hub.Register(c)
	hub.Unregister(c)

	err := c.Send(notify.PushEvent{Message: "late"}, time.Second)
	require.ErrorIs(t, err, ErrChannelClosed)
}

func TestStuckClientIsDroppedFromHub(t *testing.T) {
	hub := NewHub()
	c := NewClient(hub, nil, 1)
	hub.Register(c)

	// Fill the send queue; nothing drains it without a write pump.
	event := notify.PushEvent{Message: "flood"}
	for i := 0; i < sendBufSize; i++ {
		require.NoError(t, c.Send(event, 10*time.Millisecond))
	}

	err := c.Send(event, 10*time.Millisecond)
	require.ErrorIs(t, err, ErrChannelStuck)
	require.Zero(t, hub.ConnectionCount(1))
}

func TestHubChannelSatisfiesDispatcherContract(t *testing.T) {
	hub := NewHub()
	c := NewClient(hub, nil, 7)
	hub.Register(c)

	channels := hub.ChannelsFor(7)
	require.Len(t, channels, 1)

	var _ notify.Channel = channels[0]
	require.NoError(t, channels[0].Send(notify.PushEvent{Message: "hi", Timestamp: time.Now()}, time.Second))
}
