package auction

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Seeding(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg := NewRegistry(testSeeds(), clock)

	views := reg.ListItems()
	require.Len(t, views, 2)

	// Stable seed order.
	assert.Equal(t, "watch", views[0].ID)
	assert.Equal(t, "lamp", views[1].ID)

	// Fresh items open at their starting price with no leader.
	assert.Equal(t, int64(50), views[0].CurrentBid)
	assert.Equal(t, int64(50), views[0].StartingPrice)
	assert.Empty(t, views[0].HighestBidderID)

	// Deadlines are relative to the authoritative clock.
	assert.Equal(t, clock.Now().Add(time.Hour), views[0].EndAt)
	assert.Equal(t, clock.Now().Add(30*time.Minute), views[1].EndAt)
}

func TestRegistry_GetItem(t *testing.T) {
	reg := NewRegistry(testSeeds(), clockwork.NewFakeClock())

	view, err := reg.GetItem("lamp")
	require.NoError(t, err)
	assert.Equal(t, "Lamp", view.Title)

	_, err = reg.GetItem("missing")
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = reg.BidHistory("missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

// TestRegistry_Reset verifies reset re-seeds every item: current bid back to
// starting price, no leader, empty history, and a deadline in the future
// relative to the reset time.
func TestRegistry_Reset(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	reg := NewRegistry(testSeeds(), clock)
	svc := NewService(reg, clock)

	_, err := svc.PlaceBid(ctx, PlaceBidCommand{ItemID: "watch", BidderID: "A", Amount: 75})
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	views := reg.Reset()
	require.Len(t, views, 2)

	for _, view := range views {
		assert.Equal(t, view.StartingPrice, view.CurrentBid)
		assert.Empty(t, view.HighestBidderID)
		assert.True(t, view.EndAt.After(clock.Now()))

		history, histErr := reg.BidHistory(view.ID)
		require.NoError(t, histErr)
		assert.Empty(t, history)
	}

	// Deadlines moved with the reset time.
	assert.Equal(t, clock.Now().Add(time.Hour), views[0].EndAt)

	// Reset is idempotent.
	again := reg.Reset()
	assert.Equal(t, views, again)
}

// TestRegistry_ResetReopensEndedAuction covers the operator flow: once an
// auction has ended, only a reset can make the item biddable again.
func TestRegistry_ResetReopensEndedAuction(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	svc := NewService(NewRegistry(testSeeds(), clock), clock)

	clock.Advance(2 * time.Hour)
	_, err := svc.PlaceBid(ctx, PlaceBidCommand{ItemID: "watch", BidderID: "A", Amount: 75})
	require.ErrorIs(t, err, ErrAuctionEnded)

	svc.Reset()

	res, err := svc.PlaceBid(ctx, PlaceBidCommand{ItemID: "watch", BidderID: "A", Amount: 75})
	require.NoError(t, err)
	assert.Equal(t, int64(75), res.Item.CurrentBid)
}

// TestRegistry_ConcurrentReadsAndBids exercises listing and bidding at the
// same time; run under -race this proves readers and the evaluator are
// properly synchronized.
func TestRegistry_ConcurrentReadsAndBids(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	reg := NewRegistry(testSeeds(), clock)
	svc := NewService(reg, clock)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := int64(1); i <= 50; i++ {
			_, _ = svc.PlaceBid(ctx, PlaceBidCommand{ItemID: "watch", BidderID: "A", Amount: 50 + i})
		}
	}()

	for i := 0; i < 50; i++ {
		views := reg.ListItems()
		assert.Len(t, views, 2)
		_, err := reg.GetItem("watch")
		assert.NoError(t, err)
	}
	<-done

	view, err := reg.GetItem("watch")
	require.NoError(t, err)
	assert.Equal(t, int64(100), view.CurrentBid)
}
