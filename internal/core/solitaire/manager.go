package solitaire

import (
	"math/rand/v2"

	"github.com/solsync/solsync/internal/core/ecs"
	"github.com/solsync/solsync/internal/core/observability/log"
)

// Board layout, in client pixels. The stock sits top-left, the waste to
// its right, foundations top-right, tableau columns below.
const (
	deckX  = 20.0
	deckY  = 20.0
	wasteX = 140.0
	wasteY = 20.0

	foundationBaseX   = 400.0
	foundationSpacing = 100.0
	foundationY       = 20.0

	tableauBaseX    = 20.0
	tableauSpacingX = 100.0
	tableauBaseY    = 150.0
	tableauSpacingY = 25.0
)

// Manager deals games and applies the operations that are not pure card
// state: drawing from the stock, recycling the waste and auto-placement.
type Manager struct {
	log log.Log
	rng *rand.Rand
}

// NewManager returns a manager whose shuffles derive from seed, so deals
// are reproducible for a given room.
func NewManager(logger log.Log, seed uint64) *Manager {
	return &Manager{
		log: logger.With(log.String("component", "solitaire")),
		rng: rand.New(rand.NewPCG(seed, seed<<1|1)),
	}
}

// StartNewGame creates the game state entity, deals a shuffled deck for
// the variant and lays out the pile entities. It returns the game state
// entity.
func (m *Manager) StartNewGame(w *ecs.World, variant Variant) ecs.Entity {
	gameEntity := w.CreateEntity()
	ecs.Add(w, gameEntity, NewProgress(variant))

	cards := m.createDeck(w, variant)
	m.dealCards(w, variant, cards)
	m.createStacks(w, variant)

	m.log.Info("new game started",
		log.String("variant", variant.Name()),
		log.Int("cards", len(cards)),
		log.Uint64("game_entity", gameEntity.ID()),
	)
	return gameEntity
}

// createDeck spawns one card entity per card, two decks for Spider, and
// shuffles the spawn order.
func (m *Manager) createDeck(w *ecs.World, variant Variant) []ecs.Entity {
	deckCount := 1
	if variant == Spider {
		deckCount = 2
	}

	var cards []ecs.Entity
	for range deckCount {
		for _, suit := range Suits() {
			for _, rank := range Ranks() {
				e := w.CreateEntity()
				ecs.Add(w, e, NewCard(suit, rank))
				cards = append(cards, e)
			}
		}
	}

	m.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}

func (m *Manager) dealCards(w *ecs.World, variant Variant, cards []ecs.Entity) {
	switch variant {
	case Klondike:
		m.dealKlondike(w, cards)
	case FreeCell:
		m.dealFreeCell(w, cards)
	case Spider:
		m.dealSpider(w, cards)
	}
}

// dealKlondike lays out the classic staircase: seven columns of 1..7 cards
// with only the top card face up, remainder to the stock.
func (m *Manager) dealKlondike(w *ecs.World, cards []ecs.Entity) {
	idx := 0
	for column := 0; column < 7; column++ {
		for row := 0; row <= column; row++ {
			if idx >= len(cards) {
				break
			}
			card, ok := ecs.GetMut[Card](w, cards[idx])
			if ok {
				card.SetLocation(LocationTableau, uint32(column))
				card.SetDisplayPosition(
					tableauBaseX+float64(column)*tableauSpacingX,
					tableauBaseY+float64(row)*tableauSpacingY,
				)
				if row == column {
					card.FlipUp()
				} else {
					card.FlipDown()
				}
			}
			idx++
		}
	}

	for i := idx; i < len(cards); i++ {
		card, ok := ecs.GetMut[Card](w, cards[i])
		if !ok {
			continue
		}
		card.SetLocation(LocationDeck, uint32(i-idx))
		card.SetDisplayPosition(deckX, deckY)
		card.FlipDown()
	}

	m.log.Debug("klondike dealt",
		log.Int("tableau", idx),
		log.Int("stock", len(cards)-idx),
	)
}

// dealFreeCell spreads all 52 cards face up over eight columns.
func (m *Manager) dealFreeCell(w *ecs.World, cards []ecs.Entity) {
	for i, e := range cards {
		column := i % 8
		row := i / 8
		card, ok := ecs.GetMut[Card](w, e)
		if !ok {
			continue
		}
		card.SetLocation(LocationTableau, uint32(column))
		card.SetDisplayPosition(50.0+float64(column)*100.0, 200.0+float64(row)*20.0)
		card.FlipUp()
	}
	m.log.Debug("freecell dealt", log.Int("cards", len(cards)))
}

// dealSpider lays out ten columns, six cards in the first four and five in
// the rest, top cards face up, remainder to the stock.
func (m *Manager) dealSpider(w *ecs.World, cards []ecs.Entity) {
	idx := 0
	for column := 0; column < 10; column++ {
		inColumn := 5
		if column < 4 {
			inColumn = 6
		}
		for row := 0; row < inColumn; row++ {
			if idx >= len(cards) {
				break
			}
			card, ok := ecs.GetMut[Card](w, cards[idx])
			if ok {
				card.SetLocation(LocationTableau, uint32(column))
				card.SetDisplayPosition(50.0+float64(column)*80.0, 200.0+float64(row)*15.0)
				if row == inColumn-1 {
					card.FlipUp()
				}
			}
			idx++
		}
	}

	for i := idx; i < len(cards); i++ {
		card, ok := ecs.GetMut[Card](w, cards[i])
		if !ok {
			continue
		}
		card.SetLocation(LocationDeck, 0)
		card.SetDisplayPosition(50.0, 100.0)
	}

	m.log.Debug("spider dealt",
		log.Int("tableau", idx),
		log.Int("stock", len(cards)-idx),
	)
}

// createStacks spawns the pile entities for the variant's board.
func (m *Manager) createStacks(w *ecs.World, variant Variant) {
	addStack := func(kind Location, index uint32, x, y float64) {
		e := w.CreateEntity()
		ecs.Add(w, e, NewStack(kind, index, x, y))
	}

	switch variant {
	case Klondike:
		for i := uint32(0); i < 7; i++ {
			addStack(LocationTableau, i, 100.0+float64(i)*120.0, 200.0)
		}
		for i := uint32(0); i < 4; i++ {
			addStack(LocationFoundation, i, 400.0+float64(i)*120.0, 50.0)
		}
	case FreeCell:
		for i := uint32(0); i < 8; i++ {
			addStack(LocationTableau, i, 50.0+float64(i)*100.0, 200.0)
		}
		for i := uint32(0); i < 4; i++ {
			addStack(LocationFreeCell, i, 50.0+float64(i)*100.0, 50.0)
		}
		for i := uint32(0); i < 4; i++ {
			addStack(LocationFoundation, i, 450.0+float64(i)*100.0, 50.0)
		}
	case Spider:
		for i := uint32(0); i < 10; i++ {
			addStack(LocationTableau, i, 50.0+float64(i)*80.0, 200.0)
		}
		for i := uint32(0); i < 8; i++ {
			addStack(LocationFoundation, i, 50.0+float64(i)*80.0, 50.0)
		}
	}
}

// DrawFromDeck turns the top stock card onto the waste. When the stock is
// empty it recycles the waste back into the stock instead, which counts as
// a deck turn. It reports whether any card moved.
func (m *Manager) DrawFromDeck(w *ecs.World) bool {
	var top ecs.Entity
	var topSlot uint32
	found := false
	for e, card := range ecs.Query[Card](w) {
		if card.Location != LocationDeck {
			continue
		}
		if !found || card.Slot > topSlot {
			top, topSlot, found = e, card.Slot, true
		}
	}

	if !found {
		return m.recycleWaste(w)
	}

	card, ok := ecs.GetMut[Card](w, top)
	if !ok {
		return false
	}
	card.SetLocation(LocationWaste, 0)
	card.SetDisplayPosition(wasteX, wasteY)
	card.FlipUp()
	m.log.Debug("card drawn", log.String("card", card.Label()))
	return true
}

// recycleWaste turns the waste face down and back into the stock, in
// reverse order so a following draw repeats the original sequence.
func (m *Manager) recycleWaste(w *ecs.World) bool {
	var waste []ecs.Entity
	for e, card := range ecs.Query[Card](w) {
		if card.Location == LocationWaste {
			waste = append(waste, e)
		}
	}
	if len(waste) == 0 {
		m.log.Debug("stock and waste both empty")
		return false
	}

	for i := len(waste) - 1; i >= 0; i-- {
		card, ok := ecs.GetMut[Card](w, waste[i])
		if !ok {
			continue
		}
		card.SetLocation(LocationDeck, uint32(len(waste)-1-i))
		card.SetDisplayPosition(deckX, deckY)
		card.FlipDown()
	}

	for _, progress := range ecs.QueryMut[Progress](w) {
		progress.RecordDeckTurn()
	}

	m.log.Debug("waste recycled", log.Int("cards", len(waste)))
	return true
}

// FindAutoPlacement returns the best legal destination for a card,
// foundations first then tableau columns, without moving it.
func (m *Manager) FindAutoPlacement(w *ecs.World, cardEntity ecs.Entity) (Location, uint32, bool) {
	card, ok := ecs.Get[Card](w, cardEntity)
	if !ok || !card.Movable {
		return 0, 0, false
	}
	for index := uint32(0); index < 4; index++ {
		top, hasTop := FoundationTop(w, index)
		var topRef *Card
		if hasTop {
			topRef = &top
		}
		if card.CanPlaceOnFoundation(topRef) {
			return LocationFoundation, index, true
		}
	}
	for column := uint32(0); column < 7; column++ {
		top, hasTop := TableauTop(w, column)
		allowed := card.CanPlaceOnEmptyTableau()
		if hasTop {
			allowed = card.CanPlaceOnTableau(&top)
		}
		if allowed {
			return LocationTableau, column, true
		}
	}
	return 0, 0, false
}

// AutoPlace moves a card to the best legal destination, foundations first
// then tableau columns. It reports whether the card was placed.
func (m *Manager) AutoPlace(w *ecs.World, cardEntity ecs.Entity) bool {
	to, slot, ok := m.FindAutoPlacement(w, cardEntity)
	if !ok {
		return false
	}
	depth := 0
	if to == LocationTableau {
		depth = TableauCount(w, slot)
	}
	mut, ok := ecs.GetMut[Card](w, cardEntity)
	if !ok {
		return false
	}
	mut.SetLocation(to, slot)
	switch to {
	case LocationFoundation:
		mut.SetDisplayPosition(foundationBaseX+float64(slot)*foundationSpacing, foundationY)
	case LocationTableau:
		mut.SetDisplayPosition(
			tableauBaseX+float64(slot)*tableauSpacingX,
			tableauBaseY+float64(depth)*tableauSpacingY,
		)
	}
	m.log.Debug("auto placed",
		log.String("card", mut.Label()),
		log.String("to", to.Name()),
		log.Uint64("slot", uint64(slot)),
	)
	return true
}

// CheckWin reports whether all four foundations are topped by Kings.
func (m *Manager) CheckWin(w *ecs.World) bool {
	completed := 0
	for index := uint32(0); index < 4; index++ {
		if top, ok := FoundationTop(w, index); ok && top.Rank == King {
			completed++
		}
	}
	return completed == 4
}

// FoundationTop returns the highest-ranked card on the given foundation.
func FoundationTop(w *ecs.World, index uint32) (Card, bool) {
	var top Card
	found := false
	for _, card := range ecs.Query[Card](w) {
		if card.Location != LocationFoundation || card.Slot != index {
			continue
		}
		if !found || card.Rank > top.Rank {
			top, found = card, true
		}
	}
	return top, found
}

// TableauTop returns the lowest visible card in the given tableau column,
// the one other cards may be placed on.
func TableauTop(w *ecs.World, column uint32) (Card, bool) {
	var top Card
	found := false
	for _, card := range ecs.Query[Card](w) {
		if card.Location != LocationTableau || card.Slot != column || !card.FaceUp {
			continue
		}
		if !found || card.DisplayY > top.DisplayY {
			top, found = card, true
		}
	}
	return top, found
}

// Card dimensions, in client pixels, used for click hit testing.
const (
	cardWidth  = 80.0
	cardHeight = 120.0
)

// CardAt returns the topmost movable face-up card whose rectangle contains
// the point.
func CardAt(w *ecs.World, x, y float64) (ecs.Entity, bool) {
	return cardAt(w, x, y, func(c Card) bool { return c.FaceUp && c.Movable })
}

// FaceDownCardAt returns the topmost face-down card whose rectangle
// contains the point.
func FaceDownCardAt(w *ecs.World, x, y float64) (ecs.Entity, bool) {
	return cardAt(w, x, y, func(c Card) bool { return !c.FaceUp })
}

func cardAt(w *ecs.World, x, y float64, match func(Card) bool) (ecs.Entity, bool) {
	var hit ecs.Entity
	var hitY float64
	found := false
	for e, card := range ecs.Query[Card](w) {
		if !match(card) {
			continue
		}
		if x < card.DisplayX || x > card.DisplayX+cardWidth ||
			y < card.DisplayY || y > card.DisplayY+cardHeight {
			continue
		}
		// Overlapping fanned cards resolve to the lowest one on screen.
		if !found || card.DisplayY > hitY {
			hit, hitY, found = e, card.DisplayY, true
		}
	}
	return hit, found
}

// TableauCount returns the number of cards in the given tableau column.
func TableauCount(w *ecs.World, column uint32) int {
	count := 0
	for _, card := range ecs.Query[Card](w) {
		if card.Location == LocationTableau && card.Slot == column {
			count++
		}
	}
	return count
}
