package solitaire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCardColors(t *testing.T) {
	red := NewCard(Hearts, Five)
	require.Equal(t, Red, red.Color())
	diamond := NewCard(Diamonds, Five)
	require.Equal(t, Red, diamond.Color())
	black := NewCard(Spades, Five)
	require.Equal(t, Black, black.Color())
	club := NewCard(Clubs, Five)
	require.Equal(t, Black, club.Color())
}

func TestTableauPlacementRules(t *testing.T) {
	redSeven := NewCard(Hearts, Seven)
	blackEight := NewCard(Spades, Eight)
	redEight := NewCard(Diamonds, Eight)
	blackSix := NewCard(Clubs, Six)

	t.Run("AlternatingDescending", func(t *testing.T) {
		require.True(t, redSeven.CanPlaceOnTableau(&blackEight))
	})
	t.Run("SameColorRejected", func(t *testing.T) {
		require.False(t, redSeven.CanPlaceOnTableau(&redEight))
	})
	t.Run("WrongRankRejected", func(t *testing.T) {
		require.False(t, redSeven.CanPlaceOnTableau(&blackSix))
		require.False(t, blackEight.CanPlaceOnTableau(&redSeven))
	})
	t.Run("OnlyKingOnEmptyColumn", func(t *testing.T) {
		king := NewCard(Hearts, King)
		require.True(t, king.CanPlaceOnEmptyTableau())
		require.False(t, redSeven.CanPlaceOnEmptyTableau())
	})
}

func TestFoundationPlacementRules(t *testing.T) {
	ace := NewCard(Hearts, Ace)
	two := NewCard(Hearts, Two)
	twoSpades := NewCard(Spades, Two)
	three := NewCard(Hearts, Three)

	t.Run("EmptyAcceptsOnlyAce", func(t *testing.T) {
		require.True(t, ace.CanPlaceOnFoundation(nil))
		require.False(t, two.CanPlaceOnFoundation(nil))
	})
	t.Run("SameSuitAscending", func(t *testing.T) {
		require.True(t, two.CanPlaceOnFoundation(&ace))
		require.False(t, twoSpades.CanPlaceOnFoundation(&ace))
		require.False(t, three.CanPlaceOnFoundation(&ace))
	})
}

func TestFlipControlsMovability(t *testing.T) {
	card := NewCard(Clubs, Ten)
	card.SetLocation(LocationTableau, 3)
	require.False(t, card.Movable)

	card.FlipUp()
	require.True(t, card.Movable)

	card.Selected = true
	card.FlipDown()
	require.False(t, card.Movable)
	require.False(t, card.Selected)

	t.Run("FoundationCardsNotMovable", func(t *testing.T) {
		card.FlipUp()
		card.SetLocation(LocationFoundation, 0)
		require.False(t, card.Movable)
	})
}

func TestCardAnimation(t *testing.T) {
	card := NewCard(Hearts, Queen)
	card.SetDisplayPosition(10, 20)
	card.StartAnimation(100, 200)
	require.True(t, card.Animating)

	card.FinishAnimation()
	require.False(t, card.Animating)
	require.Equal(t, 100.0, card.DisplayX)
	require.Equal(t, 200.0, card.DisplayY)
}

func TestLabels(t *testing.T) {
	card := NewCard(Spades, Ten)
	require.Equal(t, "♠10", card.Label())
	require.Equal(t, "A", Ace.Display())
	require.Equal(t, "K", King.Display())
	require.Equal(t, "7", Seven.Display())
	require.Equal(t, "tableau", LocationTableau.Name())
	require.Equal(t, "klondike", Klondike.Name())
}
