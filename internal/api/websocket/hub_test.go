package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/recruitflow/recruitflow-backend/internal/models"
)

func TestNewHub(t *testing.T) {
	hub := NewHub(context.Background())

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.subscriptions)
	assert.NotNil(t, hub.broadcast)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
}

func TestHubClientRegistration(t *testing.T) {
	hub := NewHub(context.Background())
	go hub.Run()
	defer hub.Stop()

	assert.Equal(t, 0, hub.GetClientCount())

	client := &Client{send: make(chan []byte, 256)}
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 1, hub.GetClientCount())

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 0, hub.GetClientCount())
}

func TestHubBroadcastReachesOnlySubscribers(t *testing.T) {
	hub := NewHub(context.Background())
	go hub.Run()
	defer hub.Stop()

	subscriber := &Client{send: make(chan []byte, 256)}
	bystander := &Client{send: make(chan []byte, 256)}
	hub.register <- subscriber
	hub.register <- bystander
	time.Sleep(10 * time.Millisecond)

	hub.Subscribe(subscriber, models.ChannelJobUpdates)

	hub.Broadcast(models.ChannelJobUpdates, map[string]interface{}{"type": "job_created", "id": "job-1"})

	select {
	case raw := <-subscriber.send:
		var env models.Envelope
		assert.NoError(t, json.Unmarshal(raw, &env))
		assert.Equal(t, models.ChannelJobUpdates, env.Channel)
		assert.Equal(t, "job_created", env.Data["type"])
		assert.NotEmpty(t, env.Data["timestamp"])
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the broadcast")
	}

	select {
	case <-bystander.send:
		t.Fatal("bystander received a broadcast for a channel it never joined")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubSubscribeIdempotent(t *testing.T) {
	hub := NewHub(context.Background())
	go hub.Run()
	defer hub.Stop()

	client := &Client{send: make(chan []byte, 256)}
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.Subscribe(client, models.ChannelClientUpdates)
	hub.Subscribe(client, models.ChannelClientUpdates)
	assert.Equal(t, 1, hub.SubscriberCount(models.ChannelClientUpdates))

	hub.Broadcast(models.ChannelClientUpdates, map[string]interface{}{"type": "client_updated"})
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, client.send, 1, "double subscribe must not double-deliver")
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub(context.Background())
	go hub.Run()
	defer hub.Stop()

	client := &Client{send: make(chan []byte, 256)}
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.Subscribe(client, models.ChannelCandidateUpdates)
	hub.Unsubscribe(client, models.ChannelCandidateUpdates)

	// Unsubscribing a channel that was never joined is a no-op.
	hub.Unsubscribe(client, models.ChannelJobUpdates)

	hub.Broadcast(models.ChannelCandidateUpdates, map[string]interface{}{"type": "candidate_updated"})
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, client.send, 0)
}

func TestHubUnregisterCleansSubscriptions(t *testing.T) {
	hub := NewHub(context.Background())
	go hub.Run()
	defer hub.Stop()

	client := &Client{send: make(chan []byte, 256)}
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.Subscribe(client, models.ChannelJobUpdates)
	hub.Subscribe(client, models.ChannelClientUpdates)

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 0, hub.SubscriberCount(models.ChannelJobUpdates))
	assert.Equal(t, 0, hub.SubscriberCount(models.ChannelClientUpdates))
}

func TestHubStopDisconnectsAllClients(t *testing.T) {
	hub := NewHub(context.Background())
	go hub.Run()

	for i := 0; i < 3; i++ {
		hub.register <- &Client{send: make(chan []byte, 256)}
	}
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 3, hub.GetClientCount())

	hub.Stop()
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 0, hub.GetClientCount())
}

func TestValidChannel(t *testing.T) {
	assert.True(t, ValidChannel(models.ChannelJobUpdates))
	assert.True(t, ValidChannel(models.ChannelApplicationUpdates))
	assert.False(t, ValidChannel("stock-ticker"))
	assert.False(t, ValidChannel(""))
}
