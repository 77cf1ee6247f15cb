package cards

// NewDeck52 creates a standard deck of 52 cards, suit by suit, ace to king
func NewDeck52() Stack {
	deck := make(Stack, 0, len(Suits)*len(Ranks))
	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck = append(deck, NewCard(suit, rank))
		}
	}
	return deck
}
