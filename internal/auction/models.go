package auction

import (
	"time"

	"github.com/google/uuid"
)

// Item represents an auction item. The mutable fields (CurrentBid,
// HighestBidderID, History) are only ever written while holding the item's
// serialization gate; view snapshots take the same gate.
type Item struct {
	ID              string
	Title           string
	Description     string
	ImageURL        string
	StartingPrice   int64 // in cents
	CurrentBid      int64
	HighestBidderID string // empty until the first bid is accepted
	EndAt           time.Time
	History         []Bid
}

// Bid represents an accepted bid. Immutable once appended to an item's history.
type Bid struct {
	ID       uuid.UUID `json:"id"`
	ItemID   string    `json:"item_id"`
	BidderID string    `json:"bidder_id"`
	Amount   int64     `json:"amount"`
	PlacedAt time.Time `json:"placed_at"`
}

// ItemView is the public shape of an item. It never carries bid history;
// history is reachable only through the explicit BidHistory accessor.
type ItemView struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ImageURL        string    `json:"image_url"`
	StartingPrice   int64     `json:"starting_price"`
	CurrentBid      int64     `json:"current_bid"`
	HighestBidderID string    `json:"highest_bidder_id,omitempty"`
	EndAt           time.Time `json:"end_at"`
}

// view builds the public view of the item.
// Callers must hold the item's gate.
func (i *Item) view() ItemView {
	return ItemView{
		ID:              i.ID,
		Title:           i.Title,
		Description:     i.Description,
		ImageURL:        i.ImageURL,
		StartingPrice:   i.StartingPrice,
		CurrentBid:      i.CurrentBid,
		HighestBidderID: i.HighestBidderID,
		EndAt:           i.EndAt,
	}
}

// ItemSeed describes one catalog entry. Seeds are applied at startup and on
// every reset; the auction deadline is computed as now + Duration at seed time.
type ItemSeed struct {
	ID            string
	Title         string
	Description   string
	ImageURL      string
	StartingPrice int64
	Duration      time.Duration
}

// DefaultCatalog returns the fixed demo catalog. Item IDs are stable across
// resets so that open item pages and lazily created gates stay valid.
func DefaultCatalog() []ItemSeed {
	return []ItemSeed{
		{
			ID:            "1",
			Title:         "Vintage Omega Seamaster",
			Description:   "A 1960s Omega Seamaster in original condition, recently serviced.",
			ImageURL:      "/images/omega-seamaster.jpg",
			StartingPrice: 25000, // $250.00
			Duration:      5 * time.Minute,
		},
		{
			ID:            "2",
			Title:         "First Edition 'Dune'",
			Description:   "Frank Herbert's Dune, Chilton 1965 first edition with dust jacket.",
			ImageURL:      "/images/dune-first-edition.jpg",
			StartingPrice: 80000,
			Duration:      8 * time.Minute,
		},
		{
			ID:            "3",
			Title:         "Fender Stratocaster '74",
			Description:   "Sunburst 1974 Stratocaster, all original electronics.",
			ImageURL:      "/images/strat-74.jpg",
			StartingPrice: 120000,
			Duration:      10 * time.Minute,
		},
		{
			ID:            "4",
			Title:         "Signed Jordan Rookie Card",
			Description:   "1986 Fleer Michael Jordan rookie card, PSA graded, signed.",
			ImageURL:      "/images/jordan-rookie.jpg",
			StartingPrice: 500000,
			Duration:      3 * time.Minute,
		},
		{
			ID:            "5",
			Title:         "Art Deco Table Lamp",
			Description:   "Bronze and alabaster table lamp, France, circa 1925.",
			ImageURL:      "/images/deco-lamp.jpg",
			StartingPrice: 15000,
			Duration:      6 * time.Minute,
		},
		{
			ID:            "6",
			Title:         "Leica M3 Rangefinder",
			Description:   "Double-stroke Leica M3 body with Summicron 50mm f/2.",
			ImageURL:      "/images/leica-m3.jpg",
			StartingPrice: 60000,
			Duration:      7 * time.Minute,
		},
	}
}
