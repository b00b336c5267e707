package realtime

import (
	"testing"

	"github.com/linskybing/nominate-go/internal/domain/nomination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesSubscribersOfSubmission(t *testing.T) {
	h := NewHub(nil)
	a, cancelA := h.Subscribe("sub-1")
	defer cancelA()
	other, cancelOther := h.Subscribe("sub-2")
	defer cancelOther()

	h.Publish(StatusEvent{SubmissionID: "sub-1", Status: nomination.StatusApproved})

	select {
	case ev := <-a:
		assert.Equal(t, nomination.StatusApproved, ev.Status)
	default:
		t.Fatal("expected event for sub-1")
	}
	select {
	case <-other:
		t.Fatal("unexpected event for sub-2")
	default:
	}
}

func TestHub_CancelClosesAndForgets(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.Subscribe("sub-1")
	require.Equal(t, 1, h.Subscribers("sub-1"))

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, h.Subscribers("sub-1"))

	h.Publish(StatusEvent{SubmissionID: "sub-1"})
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.Subscribe("sub-1")
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		h.Publish(StatusEvent{SubmissionID: "sub-1", Status: nomination.StatusRejected})
	}
	assert.Len(t, ch, subscriberBuffer)
}
