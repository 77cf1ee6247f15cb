package cards

type CardVisibility string

const (
	FaceDown    CardVisibility = "down" // Nobody should be shown the face
	FaceUpToAll CardVisibility = "all"  // Everyone can see
)

// HeldCard represents a card that's in play with visibility information.
// The card face is always carried; clients decide how to render a face-down card.
type HeldCard struct {
	Card
	Visibility CardVisibility `json:"visibility"`
}

// Hide sets the card as face down
func (c *HeldCard) Hide() {
	c.Visibility = FaceDown
}

// NewHeldCard creates a new held card with the specified visibility
func NewHeldCard(card Card, visibility CardVisibility) HeldCard {
	return HeldCard{
		Card:       card,
		Visibility: visibility,
	}
}

type HeldStack []HeldCard

// NewFaceUpStack wraps every card of a hand as visible to all
func NewFaceUpStack(hand Hand) HeldStack {
	held := make(HeldStack, len(hand))
	for i, c := range hand {
		held[i] = NewHeldCard(c, FaceUpToAll)
	}
	return held
}
