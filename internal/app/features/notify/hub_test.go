package notify_test

import (
	"testing"

	"github.com/dalemusser/suitemate/internal/app/features/notify"
	"go.uber.org/zap"
)

func TestHub_NotifyReachesAllConnections(t *testing.T) {
	hub := notify.NewHub(zap.NewNop())

	// Same user twice (two tabs) plus an unrelated user.
	ch1, unsub1 := hub.Subscribe("alice")
	ch2, unsub2 := hub.Subscribe("alice")
	chBob, unsubBob := hub.Subscribe("bob")
	defer unsub1()
	defer unsub2()
	defer unsubBob()

	hub.Notify("alice", notify.Event{Kind: "request", RequestID: "r1"})

	for _, ch := range []<-chan notify.Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Kind != "request" || ev.RequestID != "r1" {
				t.Errorf("event = %+v", ev)
			}
		default:
			t.Error("alice connection did not receive event")
		}
	}
	select {
	case ev := <-chBob:
		t.Errorf("bob received alice's event: %+v", ev)
	default:
	}
}

func TestHub_BroadcastReachesEveryUser(t *testing.T) {
	hub := notify.NewHub(zap.NewNop())

	chA, unsubA := hub.Subscribe("alice")
	chB, unsubB := hub.Subscribe("bob")
	defer unsubA()
	defer unsubB()

	hub.Broadcast(notify.Event{Kind: "refresh"})

	for name, ch := range map[string]<-chan notify.Event{"alice": chA, "bob": chB} {
		select {
		case ev := <-ch:
			if ev.Kind != "refresh" {
				t.Errorf("%s event = %+v", name, ev)
			}
		default:
			t.Errorf("%s did not receive broadcast", name)
		}
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := notify.NewHub(zap.NewNop())

	ch, unsub := hub.Subscribe("alice")
	unsub()

	if _, open := <-ch; open {
		t.Error("channel still open after unsubscribe")
	}

	// A second call is a no-op; a fresh subscription still works.
	unsub()
	ch2, unsub2 := hub.Subscribe("alice")
	defer unsub2()
	hub.Notify("alice", notify.Event{Kind: "request"})
	select {
	case <-ch2:
	default:
		t.Error("resubscribed connection did not receive event")
	}
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	hub := notify.NewHub(zap.NewNop())

	ch, unsub := hub.Subscribe("alice")
	defer unsub()

	// Fill the queue without draining, then overflow it.
	for i := 0; i < 17; i++ {
		hub.Notify("alice", notify.Event{Kind: "request"})
	}

	// The overflowing send closes the channel after the queued events.
	n := 0
	for range ch {
		n++
	}
	if n != 16 {
		t.Errorf("drained %d events before close, want 16", n)
	}

	// The dropped connection no longer receives anything.
	hub.Notify("alice", notify.Event{Kind: "resolved"})
}

func TestHub_CloseDropsEverything(t *testing.T) {
	hub := notify.NewHub(zap.NewNop())

	chA, _ := hub.Subscribe("alice")
	chB, _ := hub.Subscribe("bob")

	hub.Close()

	if _, open := <-chA; open {
		t.Error("alice channel still open after close")
	}
	if _, open := <-chB; open {
		t.Error("bob channel still open after close")
	}

	// Notifications after close are silently dropped.
	hub.Notify("alice", notify.Event{Kind: "request"})
}
