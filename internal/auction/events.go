package auction

import "time"

// EventType represents the type of domain event
type EventType string

const (
	EventTypeStateUpdate EventType = "state_update"
	EventTypeOutbid      EventType = "outbid"
)

// String returns the string representation of the event type
func (e EventType) String() string {
	return string(e)
}

// IsValid checks if the event type is valid
func (e EventType) IsValid() bool {
	switch e {
	case EventTypeStateUpdate, EventTypeOutbid:
		return true
	default:
		return false
	}
}

// StateUpdate is broadcast to every observer on every accepted bid,
// including the bidder who just won.
type StateUpdate struct {
	ItemID           string    `json:"item_id"`
	CurrentBid       int64     `json:"current_bid"`
	HighestBidderID  string    `json:"highest_bidder_id"`
	PreviousBidderID string    `json:"previous_bidder_id,omitempty"`
	ServerTime       time.Time `json:"server_time"`
}

// Outbid notifies a displaced leader. Recipient targeting is a transport
// concern; the engine only decides whether the event exists.
type Outbid struct {
	ItemID         string `json:"item_id"`
	OutbidBidderID string `json:"outbid_bidder_id"`
	NewBid         int64  `json:"new_bid"`
	NewBidderID    string `json:"new_bidder_id"`
}

// Event is the envelope handed to the transport layer.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// FanOut computes the notifications for an accepted bid. It is a pure
// function of the result: always one StateUpdate, plus one Outbid iff a
// different previous leader was displaced. Delivery, and any per-recipient
// filtering, belongs to the caller.
func FanOut(res *BidResult) []Event {
	events := []Event{
		{
			Type: EventTypeStateUpdate,
			Payload: StateUpdate{
				ItemID:           res.Item.ID,
				CurrentBid:       res.Item.CurrentBid,
				HighestBidderID:  res.Item.HighestBidderID,
				PreviousBidderID: res.PreviousBidderID,
				ServerTime:       res.Bid.PlacedAt,
			},
		},
	}

	if res.PreviousBidderID != "" && res.PreviousBidderID != res.Item.HighestBidderID {
		events = append(events, Event{
			Type: EventTypeOutbid,
			Payload: Outbid{
				ItemID:         res.Item.ID,
				OutbidBidderID: res.PreviousBidderID,
				NewBid:         res.Item.CurrentBid,
				NewBidderID:    res.Item.HighestBidderID,
			},
		})
	}

	return events
}
