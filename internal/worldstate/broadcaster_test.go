package worldstate

import "testing"

func TestSetNotifiesOnChangeOnly(t *testing.T) {
	b := NewBroadcaster()

	var calls []bool
	b.Subscribe(func(v bool) { calls = append(calls, v) }, false)

	b.Set(true)
	b.Set(true) // no change, no notification
	b.Set(false)

	if len(calls) != 2 || calls[0] != true || calls[1] != false {
		t.Errorf("expected notifications [true false], got %v", calls)
	}
}

func TestNotificationIsSynchronous(t *testing.T) {
	b := NewBroadcaster()

	seen := false
	b.Subscribe(func(v bool) {
		// By the time the callback runs, the broadcaster already reports
		// the new value.
		if b.Abnormal() != v {
			t.Error("callback observed a stale flag value")
		}
		seen = true
	}, false)

	b.Set(true)
	if !seen {
		t.Fatal("Set must deliver before returning")
	}
}

func TestForceNotifyOnSubscribe(t *testing.T) {
	b := NewBroadcaster()
	b.Set(true)

	got := false
	b.Subscribe(func(v bool) { got = v }, true)
	if !got {
		t.Error("force-notify subscriber must receive the current value")
	}

	called := false
	b.Subscribe(func(bool) { called = true }, false)
	if called {
		t.Error("plain subscribe must not notify")
	}
}

func TestUnsubscribeDuringNotification(t *testing.T) {
	b := NewBroadcaster()

	var order []string
	b.Subscribe(func(bool) { order = append(order, "a") }, false)
	var cancelSelf func()
	cancelSelf = b.Subscribe(func(bool) {
		order = append(order, "b")
		cancelSelf()
	}, false)
	b.Subscribe(func(bool) { order = append(order, "c") }, false)

	// The self-removing subscriber must not make its neighbor skip or
	// double-receive this delivery.
	b.Set(true)
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("first delivery reached %v, expected [a b c]", order)
	}

	order = order[:0]
	b.Set(false)
	if len(order) != 2 || order[0] != "a" || order[1] != "c" {
		t.Errorf("second delivery reached %v, expected [a c]", order)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := NewBroadcaster()

	first := 0
	second := 0
	cancel := b.Subscribe(func(bool) { first++ }, false)
	b.Subscribe(func(bool) { second++ }, false)

	b.Set(true)
	cancel()
	cancel() // double unsubscribe is harmless
	b.Set(false)

	if first != 1 {
		t.Errorf("unsubscribed callback was called %d times, expected 1", first)
	}
	if second != 2 {
		t.Errorf("remaining callback should see both changes, got %d", second)
	}
}
