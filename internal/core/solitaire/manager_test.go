package solitaire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solsync/solsync/internal/core/ecs"
	"github.com/solsync/solsync/internal/core/observability/log"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(log.New(log.LevelError), 7)
}

func TestStartNewGameKlondike(t *testing.T) {
	w := ecs.NewWorld()
	m := newTestManager(t)

	gameEntity := m.StartNewGame(w, Klondike)

	progress, ok := ecs.Get[Progress](w, gameEntity)
	require.True(t, ok)
	require.Equal(t, Klondike, progress.Variant)
	require.Equal(t, 52, progress.RequiredFoundationCards())

	t.Run("DealLayout", func(t *testing.T) {
		tableau, stock, faceUp := 0, 0, 0
		for _, card := range ecs.Query[Card](w) {
			switch card.Location {
			case LocationTableau:
				tableau++
				if card.FaceUp {
					faceUp++
				}
			case LocationDeck:
				stock++
				require.False(t, card.FaceUp)
			}
		}
		require.Equal(t, 28, tableau)
		require.Equal(t, 24, stock)
		require.Equal(t, 7, faceUp)
	})

	t.Run("ColumnsHoldStaircase", func(t *testing.T) {
		for column := uint32(0); column < 7; column++ {
			require.Equal(t, int(column)+1, TableauCount(w, column))
			_, ok := TableauTop(w, column)
			require.True(t, ok)
		}
	})

	t.Run("StacksCreated", func(t *testing.T) {
		tableauStacks, foundationStacks := 0, 0
		for _, stack := range ecs.Query[Stack](w) {
			switch stack.Kind {
			case LocationTableau:
				tableauStacks++
			case LocationFoundation:
				foundationStacks++
			}
		}
		require.Equal(t, 7, tableauStacks)
		require.Equal(t, 4, foundationStacks)
	})
}

func TestStartNewGameSpider(t *testing.T) {
	w := ecs.NewWorld()
	m := newTestManager(t)
	gameEntity := m.StartNewGame(w, Spider)

	progress, ok := ecs.Get[Progress](w, gameEntity)
	require.True(t, ok)
	require.Equal(t, 104, progress.RequiredFoundationCards())
	require.Equal(t, 104, ecs.Count[Card](w))
}

func TestStartNewGameFreeCell(t *testing.T) {
	w := ecs.NewWorld()
	m := newTestManager(t)
	m.StartNewGame(w, FreeCell)

	for _, card := range ecs.Query[Card](w) {
		require.Equal(t, LocationTableau, card.Location)
		require.True(t, card.FaceUp)
	}
	freeCells := 0
	for _, stack := range ecs.Query[Stack](w) {
		if stack.Kind == LocationFreeCell {
			freeCells++
			require.Equal(t, 1, stack.MaxCapacity)
		}
	}
	require.Equal(t, 4, freeCells)
}

func TestSeededDealsAreReproducible(t *testing.T) {
	layout := func(seed uint64) map[string]Location {
		w := ecs.NewWorld()
		m := NewManager(log.New(log.LevelError), seed)
		m.StartNewGame(w, Klondike)
		out := make(map[string]Location)
		for _, card := range ecs.Query[Card](w) {
			out[card.Label()] = card.Location
		}
		return out
	}
	require.Equal(t, layout(11), layout(11))
}

func TestDrawFromDeck(t *testing.T) {
	w := ecs.NewWorld()
	m := newTestManager(t)
	m.StartNewGame(w, Klondike)

	require.True(t, m.DrawFromDeck(w))

	waste, stock := 0, 0
	for _, card := range ecs.Query[Card](w) {
		switch card.Location {
		case LocationWaste:
			waste++
			require.True(t, card.FaceUp)
			require.True(t, card.Movable)
		case LocationDeck:
			stock++
		}
	}
	require.Equal(t, 1, waste)
	require.Equal(t, 23, stock)
}

func TestRecycleWasteCountsDeckTurn(t *testing.T) {
	w := ecs.NewWorld()
	m := newTestManager(t)
	gameEntity := m.StartNewGame(w, Klondike)

	// Run the stock dry, then one more draw to trigger the recycle.
	for i := 0; i < 24; i++ {
		require.True(t, m.DrawFromDeck(w))
	}
	require.True(t, m.DrawFromDeck(w))

	progress, ok := ecs.Get[Progress](w, gameEntity)
	require.True(t, ok)
	require.Equal(t, uint32(1), progress.DeckTurns)

	stock := 0
	for _, card := range ecs.Query[Card](w) {
		if card.Location == LocationDeck {
			require.False(t, card.FaceUp)
			stock++
		}
	}
	require.Equal(t, 24, stock)
}

func TestAutoPlaceAceGoesToFoundation(t *testing.T) {
	w := ecs.NewWorld()
	m := newTestManager(t)

	ace := w.CreateEntity()
	card := NewCard(Hearts, Ace)
	card.SetLocation(LocationWaste, 0)
	card.FlipUp()
	ecs.Add(w, ace, card)

	require.True(t, m.AutoPlace(w, ace))

	placed, ok := ecs.Get[Card](w, ace)
	require.True(t, ok)
	require.Equal(t, LocationFoundation, placed.Location)

	t.Run("FaceDownCardRefused", func(t *testing.T) {
		hidden := w.CreateEntity()
		c := NewCard(Spades, Ace)
		c.SetLocation(LocationDeck, 0)
		ecs.Add(w, hidden, c)
		require.False(t, m.AutoPlace(w, hidden))
	})
}

func TestFindAutoPlacementLeavesCardInPlace(t *testing.T) {
	w := ecs.NewWorld()
	m := newTestManager(t)

	ace := w.CreateEntity()
	card := NewCard(Clubs, Ace)
	card.SetLocation(LocationWaste, 0)
	card.FlipUp()
	ecs.Add(w, ace, card)

	to, slot, ok := m.FindAutoPlacement(w, ace)
	require.True(t, ok)
	require.Equal(t, LocationFoundation, to)
	require.Equal(t, uint32(0), slot)

	unmoved, _ := ecs.Get[Card](w, ace)
	require.Equal(t, LocationWaste, unmoved.Location)

	t.Run("NoDestinationForStuckCard", func(t *testing.T) {
		stuck := w.CreateEntity()
		c := NewCard(Hearts, Seven)
		c.SetLocation(LocationWaste, 0)
		c.FlipUp()
		ecs.Add(w, stuck, c)
		_, _, ok := m.FindAutoPlacement(w, stuck)
		require.False(t, ok)
	})
}

func TestCheckWin(t *testing.T) {
	w := ecs.NewWorld()
	m := newTestManager(t)
	require.False(t, m.CheckWin(w))

	for index, suit := range Suits() {
		e := w.CreateEntity()
		c := NewCard(suit, King)
		c.FlipUp()
		c.SetLocation(LocationFoundation, uint32(index))
		ecs.Add(w, e, c)
	}
	require.True(t, m.CheckWin(w))
}
