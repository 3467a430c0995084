package websockets

import (
	"fmt"
	"sync"
	"testing"
)

// Subscribe frames can land while a broadcast is iterating the client set;
// both paths touch a client's subscribed places and must hold the manager
// lock. Run with -race.
func TestHubSubscribeDuringBroadcast(t *testing.T) {
	manager := NewWebSocketManager()
	go manager.Run()

	// The client stays subscribed to a place the broadcast never targets, so
	// the broadcast path exercises subscribedTo without writing to the nil
	// connection.
	client := &Client{Places: map[string]bool{"pinned": true}}
	manager.register <- client

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			manager.BroadcastCrowdUpdate(CrowdUpdate{
				Type:       MsgTypeCrowdUpdate,
				PlaceID:    "broadcast-target",
				CrowdLevel: "High",
			})
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			placeID := fmt.Sprintf("place-%d", i)
			manager.subscribe(client, "user-1", placeID)
			manager.unsubscribe(client, placeID)
		}
	}()

	wg.Wait()

	if !client.subscribedTo("pinned") {
		t.Error("client lost its pinned subscription")
	}
	if client.subscribedTo("broadcast-target") {
		t.Error("client should not be subscribed to the broadcast target")
	}
}
