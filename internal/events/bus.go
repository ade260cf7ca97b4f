// Package events provides an in-process publish/subscribe bus.
//
// The bus exists so mutation paths can announce cache invalidation without
// reaching into the cache directly; a future cross-process fanout can replace
// the transport without touching the producers.
package events

import (
	"log/slog"
	"sync"
)

// TopicDomainCacheInvalidate carries DomainInvalidation payloads whenever a
// domain record mutates.
const TopicDomainCacheInvalidate = "domain.cache.invalidate"

// DomainInvalidation identifies the hostname whose cached resolution is stale.
type DomainInvalidation struct {
	Hostname string
}

// Handler receives published payloads for a topic.
type Handler func(payload any)

// Bus is a synchronous in-process pub/sub channel.
// Handler panics are recovered and logged; a subscriber failure never
// propagates to the publisher.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
}

// NewBus creates an empty bus.
// If logger is nil, slog.Default() will be used.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for a topic.
// Subscriptions are expected at construction time and cannot be removed.
func (b *Bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

// Publish delivers payload to every subscriber of topic, in registration order.
// Delivery is synchronous; failures are logged and swallowed since cache
// staleness is bounded by TTL and is not correctness-critical.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[topic]))
	copy(handlers, b.handlers[topic])
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(topic, h, payload)
	}
}

func (b *Bus) deliver(topic string, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "topic", topic, "panic", r)
		}
	}()
	h(payload)
}
