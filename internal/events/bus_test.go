package events

import (
	"log/slog"
	"testing"
)

func TestPublishDeliversToAllSubscribersInOrder(t *testing.T) {
	b := NewBus(slog.Default())

	var order []int
	b.Subscribe("t", func(any) { order = append(order, 1) })
	b.Subscribe("t", func(any) { order = append(order, 2) })

	b.Publish("t", DomainInvalidation{Hostname: "a.example.com"})

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("expected in-order delivery, got %v", order)
	}
}

func TestPublishUnknownTopicIsNoop(t *testing.T) {
	b := NewBus(nil)
	// Must not panic or block.
	b.Publish("nobody.listens", DomainInvalidation{Hostname: "x"})
}

func TestPublishCarriesPayload(t *testing.T) {
	b := NewBus(nil)

	var got string
	b.Subscribe(TopicDomainCacheInvalidate, func(payload any) {
		if inv, ok := payload.(DomainInvalidation); ok {
			got = inv.Hostname
		}
	})

	b.Publish(TopicDomainCacheInvalidate, DomainInvalidation{Hostname: "shop.example.com"})

	if got != "shop.example.com" {
		t.Errorf("payload lost: %q", got)
	}
}

func TestPanickingHandlerDoesNotStopDelivery(t *testing.T) {
	b := NewBus(slog.Default())

	delivered := false
	b.Subscribe("t", func(any) { panic("boom") })
	b.Subscribe("t", func(any) { delivered = true })

	b.Publish("t", nil)

	if !delivered {
		t.Errorf("second handler must run despite first panicking")
	}
}
