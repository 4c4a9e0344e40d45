package mykafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutBrokersDiscards(t *testing.T) {
	p := New(nil)
	_, ok := p.(Discard)
	require.True(t, ok)

	require.NoError(t, p.PublishEvent(context.Background(), TopicProductEvents, "p-1", NewEvent(EventProductCreated, "p-1", nil)))
	require.NoError(t, p.Close())
}

func TestNewWithBrokers(t *testing.T) {
	p := New([]string{"localhost:9092"})
	prod, ok := p.(*Producer)
	require.True(t, ok)
	assert.Equal(t, "localhost:9092", prod.writer.Addr.String())
	require.NoError(t, p.Close())
}

func TestEncode(t *testing.T) {
	data, err := Encode(NewEvent(EventUserRegistered, "u1", map[string]string{"username": "maria"}))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "user_registered", got["type"])
	assert.Equal(t, "u1", got["id"])
	assert.Equal(t, "maria", got["data"].(map[string]any)["username"])
	assert.NotEmpty(t, got["occurred_at"])

	_, err = Encode(make(chan int))
	require.Error(t, err)
}
