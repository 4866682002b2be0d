package cards

import "fmt"

// Suit of a playing card.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

var suitNames = [...]string{"Clubs", "Diamonds", "Hearts", "Spades"}

func (s Suit) String() string {
	if s < 0 || int(s) >= len(suitNames) {
		return fmt.Sprintf("Suit(%d)", int(s))
	}
	return suitNames[s]
}

// Rank of a playing card, Ace low.
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

var rankNames = [...]string{"", "Ace", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten", "Jack", "Queen", "King"}

func (r Rank) String() string {
	if r < Ace || r > King {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

// PlayingCard is a card from a standard 52-card deck.
type PlayingCard struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c PlayingCard) String() string {
	return c.Rank.String() + " of " + c.Suit.String()
}

// StandardDeck returns the 52 playing cards ordered by suit (Clubs,
// Diamonds, Hearts, Spades) and, within a suit, Ace to King.
func StandardDeck() []PlayingCard {
	deck := make([]PlayingCard, 0, 52)
	for s := Clubs; s <= Spades; s++ {
		for r := Ace; r <= King; r++ {
			deck = append(deck, PlayingCard{Suit: s, Rank: r})
		}
	}
	return deck
}
