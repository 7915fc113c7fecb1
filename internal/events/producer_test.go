package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestProducer_PublishEvent(t *testing.T) {
	w := &recordingWriter{}
	p := &Producer{writer: w}

	require.NoError(t, p.PublishEvent(context.Background(), TopicOrders, "user-1", map[string]string{"orderNumber": "ORD-1"}))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, TopicOrders, msg.Topic)
	assert.Equal(t, "user-1", string(msg.Key))
	assert.JSONEq(t, `{"orderNumber":"ORD-1"}`, string(msg.Value))
}

func TestProducer_WriteError(t *testing.T) {
	p := &Producer{writer: &recordingWriter{err: errors.New("broker down")}}
	err := p.PublishEvent(context.Background(), TopicCart, "k", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cart_events")
}

func TestNewMessage_MarshalError(t *testing.T) {
	_, err := newMessage(TopicCart, "k", make(chan int))
	require.Error(t, err)
}

type capture struct {
	topic, key string
	event      any
	ctxErr     error
	err        error
}

func (c *capture) PublishEvent(ctx context.Context, topic, key string, event any) error {
	c.topic, c.key, c.event, c.ctxErr = topic, key, event, ctx.Err()
	return c.err
}

func TestEmit_WrapsEnvelopeAndIgnoresCancel(t *testing.T) {
	c := &capture{err: errors.New("ignored")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	Emit(ctx, c, TopicProducts, "p-1", "product_updated", map[string]int{"stock": 3})

	assert.Equal(t, TopicProducts, c.topic)
	assert.Equal(t, "p-1", c.key)
	assert.NoError(t, c.ctxErr)

	raw, err := json.Marshal(c.event)
	require.NoError(t, err)
	var ev struct {
		Type    string         `json:"type"`
		Payload map[string]int `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &ev))
	assert.Equal(t, "product_updated", ev.Type)
	assert.Equal(t, 3, ev.Payload["stock"])
}

func TestEmit_NilPublisher(t *testing.T) {
	Emit(context.Background(), nil, TopicCart, "k", "x", nil)
	assert.NoError(t, Noop{}.PublishEvent(context.Background(), TopicCart, "k", nil))
}

func TestNewProducer_WritesAsync(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"})
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.True(t, w.Async)
	require.NotNil(t, w.Completion)

	assert.NotPanics(t, func() {
		w.Completion([]kafka.Message{{Topic: TopicOrders}}, errors.New("broker down"))
		w.Completion(nil, nil)
	})
}
