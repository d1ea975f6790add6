package outbox

import (
	"fmt"
	"sync"

	"github.com/mustt-clothing/storefront/pkg/enums"
)

// TopicRegistry maps event types onto destination topics.
type TopicRegistry struct {
	mtx    sync.RWMutex
	topics map[enums.OutboxEventType]string
}

func NewTopicRegistry() *TopicRegistry {
	return &TopicRegistry{topics: make(map[enums.OutboxEventType]string)}
}

func (r *TopicRegistry) Register(eventType enums.OutboxEventType, topic string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.topics[eventType] = topic
}

// Resolve returns the topic for eventType or an error when none is registered.
func (r *TopicRegistry) Resolve(eventType enums.OutboxEventType) (string, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	if topic, ok := r.topics[eventType]; ok && topic != "" {
		return topic, nil
	}
	return "", fmt.Errorf("topic not registered for %s", eventType)
}
