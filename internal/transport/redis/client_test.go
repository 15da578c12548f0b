package redis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/testing/suite"
)

func TestPublisher_Publish(t *testing.T) {
	ctx, st := suite.New(t)

	publisher := NewPublisher(st.Storage, "tictactoe")

	// Given: a subscriber on the session channel
	pubsub := st.Storage.Subscribe(ctx, publisher.Channel("s1"))
	t.Cleanup(func() { _ = pubsub.Close() })

	_, err := pubsub.Receive(ctx)
	require.NoError(t, err)

	session, err := entity.NewSession("s1", entity.DefaultSettings()).Play(4)
	require.NoError(t, err)

	event := entity.SessionEvent{
		Kind: entity.EventMove,
		At:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		View: session.View(),
	}

	// When: an event is published
	err = publisher.Publish(ctx, event)
	require.NoError(t, err)

	// Then: the subscriber receives the same event
	select {
	case msg := <-pubsub.Channel():
		var received entity.SessionEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &received))

		assert.Equal(t, "tictactoe:s1", msg.Channel)
		assert.Equal(t, entity.EventMove, received.Kind)
		assert.Equal(t, entity.PlayerX, received.View.Board[4])
		assert.Equal(t, []int{4}, received.View.Moves)
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestPublisher_Channel(t *testing.T) {
	publisher := NewPublisher(nil, "events")

	assert.Equal(t, "events:abc", publisher.Channel("abc"))
}
