package store

import "sync"

// subscriberBuffer is the per-subscriber channel capacity.
const subscriberBuffer = 100

// broker fans changes out to subscribers.
type broker struct {
	mu          sync.RWMutex
	subscribers map[chan Change]struct{}
}

func newBroker() *broker {
	return &broker{subscribers: make(map[chan Change]struct{})}
}

func (b *broker) subscribe() <-chan Change {
	ch := make(chan Change, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	return ch
}

func (b *broker) unsubscribe(ch <-chan Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// find and delete the channel (need to convert to the right type)
	for subCh := range b.subscribers {
		if subCh == ch {
			delete(b.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// publish is non-blocking: if a subscriber's buffer is full, the change is
// dropped for that subscriber rather than blocking the store.
func (b *broker) publish(changes ...Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		for _, c := range changes {
			select {
			case ch <- c:
			default:
				// subscriber is slow, drop the change
			}
		}
	}
}
