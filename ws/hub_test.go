package ws

import (
	"testing"
	"time"
)

func TestHub_BroadcastFanOut(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := &Client{Send: make(chan []byte, 1)}
	b := &Client{Send: make(chan []byte, 1)}
	hub.Register <- a
	hub.Register <- b

	hub.Broadcast <- []byte(`{"queue_entry_id":1,"status":"waiting"}`)

	for _, client := range []*Client{a, b} {
		select {
		case msg := <-client.Send:
			if string(msg) != `{"queue_entry_id":1,"status":"waiting"}` {
				t.Errorf("unexpected message: %s", msg)
			}
		case <-time.After(time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{Send: make(chan []byte)} // unbuffered, never drained
	hub.Register <- slow

	hub.Broadcast <- []byte("first")
	// second broadcast hits a full send channel and evicts the client
	hub.Broadcast <- []byte("second")

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-slow.Send:
			if !ok {
				return // channel closed, client dropped
			}
		case <-deadline:
			t.Fatal("slow client was not dropped")
		}
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{Send: make(chan []byte, 1)}
	hub.Register <- c
	hub.Unregister <- c

	select {
	case _, ok := <-c.Send:
		if ok {
			t.Error("expected closed channel after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}
