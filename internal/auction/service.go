package auction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Validation errors
var (
	ErrItemNotFound  = fmt.Errorf("item not found")
	ErrAuctionEnded  = fmt.Errorf("auction has ended")
	ErrInvalidAmount = fmt.Errorf("bid amount must be positive")
	ErrInvalidBidder = fmt.Errorf("bidder id is required")
)

// BidTooLowError is returned when a bid does not exceed the current highest
// bid. It carries the value the caller must beat.
type BidTooLowError struct {
	CurrentBid int64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid too low: must exceed %d", e.CurrentBid)
}

// validateBidAmount checks if the bid amount is higher than the current highest bid
func validateBidAmount(bidAmount, currentHighest int64) error {
	if bidAmount <= 0 {
		return ErrInvalidAmount
	}
	if bidAmount <= currentHighest {
		return &BidTooLowError{CurrentBid: currentHighest}
	}
	return nil
}

// validateAuctionNotEnded checks if the auction has not ended
func validateAuctionNotEnded(now, endAt time.Time) error {
	if !now.Before(endAt) {
		return ErrAuctionEnded
	}
	return nil
}

// PlaceBidCommand represents the command to place a bid
type PlaceBidCommand struct {
	ItemID   string
	BidderID string
	Amount   int64
}

// BidResult is the outcome of an accepted bid.
type BidResult struct {
	Item             ItemView
	Bid              Bid
	PreviousBidderID string // empty when the item had no previous leader
}

// Service implements the core bid-serialization engine. All timing decisions
// go through the injected clock; all mutation happens inside the item's gate.
type Service struct {
	registry *Registry
	clock    Clock
}

// NewService creates a new auction service
func NewService(registry *Registry, clock Clock) *Service {
	return &Service{
		registry: registry,
		clock:    clock,
	}
}

// PlaceBid validates and applies a bid while holding the item's gate, so at
// most one evaluation per item is ever in flight. The deadline check and the
// mutation happen inside the same held gate: a bid queued behind another bid
// can never be accepted after the deadline. Ties are broken purely by gate
// acquisition order.
//
// A failed bid is terminal for the request; resubmitting with a higher
// amount is the caller's decision.
func (s *Service) PlaceBid(ctx context.Context, cmd PlaceBidCommand) (*BidResult, error) {
	if cmd.BidderID == "" {
		return nil, ErrInvalidBidder
	}
	if cmd.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	gate := s.registry.gate(cmd.ItemID)
	gate.Lock()
	defer gate.Unlock()

	item, ok := s.registry.lookup(cmd.ItemID)
	if !ok {
		return nil, ErrItemNotFound
	}

	now := s.clock.Now()
	if err := validateAuctionNotEnded(now, item.EndAt); err != nil {
		return nil, err
	}

	if err := validateBidAmount(cmd.Amount, item.CurrentBid); err != nil {
		return nil, err
	}

	previousBidderID := item.HighestBidderID

	bid := Bid{
		ID:       uuid.New(),
		ItemID:   item.ID,
		BidderID: cmd.BidderID,
		Amount:   cmd.Amount,
		PlacedAt: now,
	}

	item.CurrentBid = cmd.Amount
	item.HighestBidderID = cmd.BidderID
	item.History = append(item.History, bid)

	return &BidResult{
		Item:             item.view(),
		Bid:              bid,
		PreviousBidderID: previousBidderID,
	}, nil
}

// ListItems returns the public views of all items in stable seed order.
func (s *Service) ListItems() []ItemView {
	return s.registry.ListItems()
}

// GetItem returns the public view of a single item.
func (s *Service) GetItem(itemID string) (ItemView, error) {
	return s.registry.GetItem(itemID)
}

// BidHistory returns the accepted bids for an item in acceptance order.
func (s *Service) BidHistory(itemID string) ([]Bid, error) {
	return s.registry.BidHistory(itemID)
}

// Reset re-seeds every item with a fresh deadline relative to the call time.
func (s *Service) Reset() []ItemView {
	return s.registry.Reset()
}

// Now exposes the authoritative clock reading for time-sync responders.
// Clients compute offset = serverTime - localTime + roundTrip/2 and never
// trust their own clock for deadline display.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}
