// Package realtime fans review status changes out to open submission
// detail views.
package realtime

import (
	"sync"
	"time"

	"github.com/linskybing/nominate-go/internal/domain/nomination"
	"go.uber.org/zap"
)

const subscriberBuffer = 16

type StatusEvent struct {
	SubmissionID string                  `json:"submissionId"`
	CategoryID   string                  `json:"categoryId"`
	Status       nomination.ReviewStatus `json:"status"`
	ChangedBy    uint                    `json:"changedBy"`
	ChangedAt    time.Time               `json:"changedAt"`
}

type subscriber struct {
	ch chan StatusEvent
}

// Hub keeps subscribers per submission id. Publish never blocks: a
// subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:   make(map[string]map[*subscriber]struct{}),
		logger: logger.Named("realtime"),
	}
}

// Subscribe returns a channel of events for submissionID and a function
// that unsubscribes and closes the channel.
func (h *Hub) Subscribe(submissionID string) (<-chan StatusEvent, func()) {
	sub := &subscriber{ch: make(chan StatusEvent, subscriberBuffer)}

	h.mu.Lock()
	set, ok := h.subs[submissionID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subs[submissionID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[submissionID]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(h.subs, submissionID)
				}
			}
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

func (h *Hub) Publish(ev StatusEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[ev.SubmissionID] {
		select {
		case sub.ch <- ev:
		default:
			h.logger.Warn("dropping status event for slow subscriber",
				zap.String("submission_id", ev.SubmissionID))
		}
	}
}

func (h *Hub) Subscribers(submissionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[submissionID])
}
