package bus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()

	var got []any
	sub, err := b.Subscribe("game.won", func(e Event) error {
		got = append(got, e.Data())
		return nil
	})
	require.NoError(t, err)
	require.True(t, sub.IsActive())
	require.NotEmpty(t, sub.ID())

	require.NoError(t, b.Publish(NewEvent("game.won", "test", 42)))
	require.NoError(t, b.Publish(NewEvent("other.type", "test", 1)))
	require.Equal(t, []any{42}, got)

	t.Run("CancelStopsDelivery", func(t *testing.T) {
		require.NoError(t, b.Unsubscribe(sub))
		require.False(t, sub.IsActive())
		require.NoError(t, b.Publish(NewEvent("game.won", "test", 43)))
		require.Equal(t, []any{42}, got)
	})
}

func TestTopicsIsolateDelivery(t *testing.T) {
	b := New()

	var roomA, roomB int
	_, err := b.SubscribeTopic("room-a", "turn.changed", func(Event) error {
		roomA++
		return nil
	})
	require.NoError(t, err)
	_, err = b.SubscribeTopic("room-b", "turn.changed", func(Event) error {
		roomB++
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.PublishToTopic("room-a", NewEvent("turn.changed", "test", nil)))
	require.Equal(t, 1, roomA)
	require.Zero(t, roomB)
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	errBoom := errors.New("boom")

	_, err := b.Subscribe("tick", func(Event) error { return errBoom })
	require.NoError(t, err)
	_, err = b.Subscribe("tick", func(Event) error { return nil })
	require.NoError(t, err)

	err = b.Publish(NewEvent("tick", "test", nil))
	require.ErrorIs(t, err, errBoom)
}
