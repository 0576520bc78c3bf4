// Package solitaire implements the card rules for Klondike, Spider and
// FreeCell on top of the ecs runtime: card and pile components, dealing,
// move legality, scoring and the systems that advance a game each tick.
package solitaire

// Suit is a card suit.
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Symbol returns the suit glyph used in logs and client payloads.
func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Suits lists every suit in deck order.
func Suits() [4]Suit {
	return [4]Suit{Hearts, Diamonds, Clubs, Spades}
}

// Rank is a card rank, Ace low.
type Rank uint8

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

// Display returns the rank label used in logs and client payloads.
func (r Rank) Display() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Two, Three, Four, Five, Six, Seven, Eight, Nine:
		return string('0' + byte(r))
	case Ten:
		return "10"
	default:
		return "?"
	}
}

// Ranks lists every rank Ace through King.
func Ranks() [13]Rank {
	return [13]Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}
}

// Color is the red/black grouping of suits.
type Color uint8

const (
	Red Color = iota
	Black
)

// Location identifies the kind of pile a card sits in.
type Location uint8

const (
	// LocationDeck is the face-down stock in the top-left corner.
	LocationDeck Location = iota
	// LocationWaste holds cards drawn from the stock, face up.
	LocationWaste
	// LocationTableau is the main playing field of columns.
	LocationTableau
	// LocationFoundation is where suits are built Ace to King.
	LocationFoundation
	// LocationFreeCell is a single-card holding cell (FreeCell only).
	LocationFreeCell
	// LocationHand marks a card mid-move.
	LocationHand
)

// Name returns the location label used in logs.
func (l Location) Name() string {
	switch l {
	case LocationDeck:
		return "deck"
	case LocationWaste:
		return "waste"
	case LocationTableau:
		return "tableau"
	case LocationFoundation:
		return "foundation"
	case LocationFreeCell:
		return "free_cell"
	case LocationHand:
		return "hand"
	default:
		return "unknown"
	}
}

// ParseLocation maps a location label back to its value.
func ParseLocation(name string) (Location, bool) {
	for _, l := range []Location{
		LocationDeck, LocationWaste, LocationTableau,
		LocationFoundation, LocationFreeCell, LocationHand,
	} {
		if l.Name() == name {
			return l, true
		}
	}
	return 0, false
}

// Variant selects the solitaire rule set.
type Variant uint8

const (
	Klondike Variant = iota
	Spider
	FreeCell
)

// Name returns the variant label used in logs and room listings.
func (v Variant) Name() string {
	switch v {
	case Klondike:
		return "klondike"
	case Spider:
		return "spider"
	case FreeCell:
		return "freecell"
	default:
		return "unknown"
	}
}

// ParseVariant maps a variant label back to its value.
func ParseVariant(name string) (Variant, bool) {
	for _, v := range []Variant{Klondike, Spider, FreeCell} {
		if v.Name() == name {
			return v, true
		}
	}
	return 0, false
}

// Card is the per-card component: identity plus the table state and display
// coordinates the client renders from.
type Card struct {
	Suit   Suit `json:"suit"`
	Rank   Rank `json:"rank"`
	FaceUp bool `json:"face_up"`

	Location Location `json:"location"`
	// Slot is the position within the location: tableau column, foundation
	// index, or order inside the stock.
	Slot uint32 `json:"slot"`

	Movable  bool `json:"movable"`
	Selected bool `json:"selected"`

	DisplayX  float64 `json:"display_x"`
	DisplayY  float64 `json:"display_y"`
	TargetX   float64 `json:"target_x"`
	TargetY   float64 `json:"target_y"`
	Animating bool    `json:"animating"`
}

// NewCard returns a face-down card in the stock.
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank, Location: LocationDeck}
}

// Label returns the short human form, e.g. "♥A".
func (c *Card) Label() string {
	return c.Suit.Symbol() + c.Rank.Display()
}

// Color returns the card's color group.
func (c *Card) Color() Color {
	if c.Suit == Hearts || c.Suit == Diamonds {
		return Red
	}
	return Black
}

// FlipUp turns the card face up and refreshes its movability.
func (c *Card) FlipUp() {
	c.FaceUp = true
	c.updateMovability()
}

// FlipDown turns the card face down; face-down cards are never movable.
func (c *Card) FlipDown() {
	c.FaceUp = false
	c.Movable = false
	c.Selected = false
}

// SetLocation moves the card to a new pile and refreshes its movability.
func (c *Card) SetLocation(location Location, slot uint32) {
	c.Location = location
	c.Slot = slot
	c.updateMovability()
}

// SetDisplayPosition places the card at fixed screen coordinates.
func (c *Card) SetDisplayPosition(x, y float64) {
	c.DisplayX = x
	c.DisplayY = y
}

// StartAnimation begins gliding the card toward target coordinates.
func (c *Card) StartAnimation(targetX, targetY float64) {
	c.TargetX = targetX
	c.TargetY = targetY
	c.Animating = true
}

// FinishAnimation snaps the card onto its target.
func (c *Card) FinishAnimation() {
	c.DisplayX = c.TargetX
	c.DisplayY = c.TargetY
	c.Animating = false
}

func (c *Card) updateMovability() {
	if !c.FaceUp {
		c.Movable = false
		return
	}
	switch c.Location {
	case LocationTableau, LocationWaste, LocationFreeCell:
		c.Movable = true
	default:
		// Foundation cards stay put once placed.
		c.Movable = false
	}
}

// CanPlaceOnTableau reports whether the card may be placed on top of other
// in a tableau column: alternating colors, descending by one rank.
func (c *Card) CanPlaceOnTableau(other *Card) bool {
	return c.Color() != other.Color() && other.Rank == c.Rank+1
}

// CanPlaceOnEmptyTableau reports whether the card may start an empty
// column. Only Kings qualify.
func (c *Card) CanPlaceOnEmptyTableau() bool {
	return c.Rank == King
}

// CanPlaceOnFoundation reports whether the card may be placed on a
// foundation whose current top is top (nil for an empty foundation, which
// accepts only Aces). Otherwise same suit, ascending by one rank.
func (c *Card) CanPlaceOnFoundation(top *Card) bool {
	if top == nil {
		return c.Rank == Ace
	}
	return c.Suit == top.Suit && c.Rank == top.Rank+1
}
