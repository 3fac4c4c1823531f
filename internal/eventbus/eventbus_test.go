package eventbus

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Publish("trip-updated")
	v := <-ch
	if v != "trip-updated" {
		t.Fatalf("expected trip-updated got %v", v)
	}
	bus.Unsubscribe(ch)
}

func TestBusClose(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}

func TestBusSlowSubscriberDoesNotBlock(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	for i := 0; i < subBuffer*2; i++ {
		bus.Publish(i)
	}
	if len(ch) != subBuffer {
		t.Fatalf("expected %d buffered events, got %d", subBuffer, len(ch))
	}
}

func TestTypedBus(t *testing.T) {
	bus := NewTyped[int]()
	ch := bus.Subscribe()
	bus.Publish(7)
	if v := <-ch; v != 7 {
		t.Fatalf("expected 7 got %d", v)
	}
	bus.Close()
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}
}
