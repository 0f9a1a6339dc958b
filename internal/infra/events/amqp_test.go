package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("JST", 9*60*60))
	msg := newMessage("order.placed", map[string]any{"orderId": 1}, now)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "order.placed", msg.Event)
	assert.Equal(t, time.UTC, msg.OccurredAt.Location())

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "order.placed", decoded["event"])
	assert.Equal(t, float64(1), decoded["data"].(map[string]any)["orderId"])
}

func TestChannelClosed(t *testing.T) {
	closed, reason := channelClosed(nil)
	assert.True(t, closed)
	assert.Nil(t, reason)

	open := make(chan *amqp.Error, 1)
	closed, _ = channelClosed(open)
	assert.False(t, closed)

	open <- &amqp.Error{Code: amqp.ChannelError, Reason: "NOT_FOUND"}
	closed, reason = channelClosed(open)
	assert.True(t, closed)
	require.NotNil(t, reason)
	assert.Equal(t, "NOT_FOUND", reason.Reason)

	done := make(chan *amqp.Error)
	close(done)
	closed, reason = channelClosed(done)
	assert.True(t, closed)
	assert.Nil(t, reason)
}

func TestPublisher_PublishAfterClose(t *testing.T) {
	p := &Publisher{exchange: "storetrack.test"}
	require.NoError(t, p.Close())

	err := p.Publish(context.Background(), "order.placed", nil)
	assert.ErrorIs(t, err, errPublisherClosed)
}

// RABBITMQ_URLがあるときだけ実際のブローカーで確認する
func TestPublisher_RabbitMQ(t *testing.T) {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		t.Skip("RABBITMQ_URL not set")
	}

	p, err := NewPublisher(url, "storetrack.test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	assert.NoError(t, p.Publish(context.Background(), "order.placed", map[string]any{"orderId": 1}))

	// ブローカーにチャネルを閉じられても次で開き直す
	require.NoError(t, p.channel.Close())
	assert.NoError(t, p.Publish(context.Background(), "order.placed", map[string]any{"orderId": 2}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, "order.placed", nil), context.Canceled)
}
