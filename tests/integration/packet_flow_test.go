package integration

import (
	"context"
	"testing"
	"time"

	"vibewire/application/services"
	"vibewire/domain/config"
	"vibewire/domain/packet"
	"vibewire/domain/state"
	"vibewire/domain/vibe"
	"vibewire/infrastructure/messaging"
	"vibewire/infrastructure/persistence/memory"
	"vibewire/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testStack struct {
	store    *memory.StateStore
	packets  *services.PacketService
	timeline *services.TimelineService
}

func setupStack(t *testing.T) *testStack {
	t.Helper()

	cfg := config.DefaultDomainConfig()
	logger := zap.NewNop()
	detector := vibe.NewDetector(cfg)
	safety := vibe.NewSafetyFilter(vibe.NewHumor(), cfg)
	store := memory.NewStateStore()

	return &testStack{
		store: store,
		packets: services.NewPacketService(
			packet.NewFactory(detector, cfg),
			safety,
			state.NewMachine(cfg),
			store,
			messaging.NewNoopNotifier(logger),
			observability.NewMetrics("vibewire_integration"),
			logger,
		),
		timeline: services.NewTimelineService(store, state.NewAggregator(cfg), cfg, logger),
	}
}

// TestPacketFlow_SendThenRead walks the full path: a packet is sent, the
// recipient's state reflects it, and the timeline shows the received vibe.
func TestPacketFlow_SendThenRead(t *testing.T) {
	ctx := context.Background()
	stack := setupStack(t)

	result, err := stack.packets.Send(ctx, services.SendInput{
		Text:        "i am so stressed, this deadline is brutal",
		SenderID:    "sender-1",
		RecipientID: "recipient-1",
	})
	require.NoError(t, err)
	require.NotNil(t, result.State)
	assert.Greater(t, result.State.Current[vibe.DimensionStress], 50)

	st, err := stack.timeline.State(ctx, "recipient-1")
	require.NoError(t, err)
	assert.Equal(t, result.State.Current, st.Current)
	assert.Len(t, st.History, 1)

	buckets, err := stack.timeline.Timeline(ctx, "recipient-1")
	require.NoError(t, err)
	require.NotEmpty(t, buckets)
}

// TestPacketFlow_MultipleSendersBlendIntoOneState verifies packets from
// different senders accumulate into the same recipient state.
func TestPacketFlow_MultipleSendersBlendIntoOneState(t *testing.T) {
	ctx := context.Background()
	stack := setupStack(t)

	senders := []string{"sender-1", "sender-2", "sender-3"}
	for _, sender := range senders {
		_, err := stack.packets.Send(ctx, services.SendInput{
			Text:        "so stressed and overwhelmed, everything is urgent",
			SenderID:    sender,
			RecipientID: "recipient-1",
		})
		require.NoError(t, err)
	}

	st, err := stack.timeline.State(ctx, "recipient-1")
	require.NoError(t, err)
	assert.Len(t, st.History, len(senders))
	assert.Equal(t, int64(len(senders)), st.Version)
	assert.Greater(t, st.Current[vibe.DimensionStress], 60)
}

// TestPacketFlow_ConcurrentSendersDoNotLoseUpdates hammers one recipient
// from many goroutines; every packet must land in history exactly once.
func TestPacketFlow_ConcurrentSendersDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	stack := setupStack(t)

	const sends = 20
	errs := make(chan error, sends)
	for i := 0; i < sends; i++ {
		go func() {
			_, err := stack.packets.Send(ctx, services.SendInput{
				Text:        "quick check-in",
				SenderID:    "sender-1",
				RecipientID: "recipient-1",
			})
			errs <- err
		}()
	}
	for i := 0; i < sends; i++ {
		require.NoError(t, <-errs)
	}

	st, err := stack.timeline.State(ctx, "recipient-1")
	require.NoError(t, err)
	assert.Equal(t, int64(sends), st.Version)
	assert.Len(t, st.History, sends)
}

// TestPacketFlow_BlockedPacketNeverReachesRecipient confirms the safety
// gate keeps a blocked packet out of the recipient's state entirely.
func TestPacketFlow_BlockedPacketNeverReachesRecipient(t *testing.T) {
	ctx := context.Background()
	stack := setupStack(t)

	result, err := stack.packets.Send(ctx, services.SendInput{
		Text:        "per my last message, like i said, whatever works for you",
		SenderID:    "sender-1",
		RecipientID: "recipient-1",
		Block:       vibe.BlockSettings{BlockPassiveAggressive: true},
	})
	require.NoError(t, err)
	assert.True(t, result.Blocked)

	_, err = stack.timeline.State(ctx, "recipient-1")
	require.Error(t, err, "no state should exist for a recipient who only received blocked packets")
}

// TestPacketFlow_ExpiredPacketNeverApplied sends a packet whose validity
// window has already passed; the state must stay untouched.
func TestPacketFlow_ExpiredPacketNeverApplied(t *testing.T) {
	ctx := context.Background()
	stack := setupStack(t)

	// Seed a state so the drop leaves something observable behind
	_, err := stack.packets.Send(ctx, services.SendInput{
		Text:        "calm and steady over here",
		SenderID:    "sender-1",
		RecipientID: "recipient-1",
	})
	require.NoError(t, err)

	before, err := stack.timeline.State(ctx, "recipient-1")
	require.NoError(t, err)

	// A window this short has closed by the time the packet is re-validated,
	// so it is rejected before ever touching the recipient.
	_, err = stack.packets.Send(ctx, services.SendInput{
		Text:        "EVERYTHING IS ON FIRE!!!",
		SenderID:    "sender-2",
		RecipientID: "recipient-1",
		ExpiresIn:   time.Nanosecond,
	})
	require.Error(t, err)

	after, err := stack.timeline.State(ctx, "recipient-1")
	require.NoError(t, err)
	assert.Equal(t, before.Current, after.Current)
	assert.Len(t, after.History, len(before.History))
}
