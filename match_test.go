package popups

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lovelace-tools/go-popups/internal/value"
)

func popupStack(fields ...any) *value.Mapping {
	bubble := value.NewMapping()
	bubble.Set("type", value.String(bubbleType))
	bubble.Set("card_type", value.String(bubbleCard))
	for i := 0; i < len(fields); i += 2 {
		bubble.Set(fields[i].(string), fields[i+1].(value.Value))
	}

	cards := value.NewSequence()
	cards.Append(bubble)

	stack := value.NewMapping()
	stack.Set("type", value.String(stackType))
	stack.Set("cards", cards)
	return stack
}

func markdownCard(content string) *value.Mapping {
	m := value.NewMapping()
	m.Set("type", value.String("markdown"))
	m.Set("content", value.String(content))
	return m
}

func TestFindStackByName(t *testing.T) {
	cards := value.NewSequence()
	cards.Append(markdownCard("not a stack"))
	cards.Append(popupStack("name", value.String("Kitchen")))
	cards.Append(popupStack("name", value.String("Bathroom")))

	match, err := findStack(cards, "kitchen", "kitchen", DetectByName)
	require.NoError(t, err)
	require.Equal(t, 1, match.Index)
	require.Empty(t, match.Duplicates)

	// Name comparison ignores case and surrounding space.
	match, err = findStack(cards, "  BATHROOM ", "bathroom", DetectByName)
	require.NoError(t, err)
	require.Equal(t, 2, match.Index)

	match, err = findStack(cards, "Garage", "garage", DetectByName)
	require.NoError(t, err)
	require.Equal(t, -1, match.Index)
}

func TestFindStackByHash(t *testing.T) {
	cards := value.NewSequence()
	cards.Append(popupStack("hash", value.String("#kueche-popup")))
	cards.Append(popupStack("hash", value.String("#bad-popup")))

	match, err := findStack(cards, "Küche", "kueche", DetectByHash)
	require.NoError(t, err)
	require.Equal(t, 0, match.Index)

	match, err = findStack(cards, "Bad", "bad", DetectByHash)
	require.NoError(t, err)
	require.Equal(t, 1, match.Index)
}

func TestFindStackByArea(t *testing.T) {
	// The area identifier sits deep inside the stack, on a tap action.
	target := value.NewMapping()
	target.Set("area_id", value.String("kueche"))
	action := value.NewMapping()
	action.Set("target", target)
	stack := popupStack()
	bubble, _ := firstCard(stack)
	bubble.Set("tap_action", action)

	cards := value.NewSequence()
	cards.Append(markdownCard("filler"))
	cards.Append(stack)

	match, err := findStack(cards, "Küche", "kueche", DetectByArea)
	require.NoError(t, err)
	require.Equal(t, 1, match.Index)

	// An explicit area field wins over the nested target.
	direct := popupStack("area", value.String("bad"))
	cards.Append(direct)
	match, err = findStack(cards, "Bad", "bad", DetectByArea)
	require.NoError(t, err)
	require.Equal(t, 2, match.Index)
}

func TestFindStackDuplicates(t *testing.T) {
	cards := value.NewSequence()
	cards.Append(popupStack("name", value.String("Kitchen")))
	cards.Append(markdownCard("filler"))
	cards.Append(popupStack("name", value.String("kitchen")))
	cards.Append(popupStack("name", value.String("KITCHEN")))

	match, err := findStack(cards, "Kitchen", "kitchen", DetectByName)
	require.NoError(t, err)
	require.Equal(t, 0, match.Index, "first match wins")
	require.Equal(t, []int{2, 3}, match.Duplicates)
}

func TestFindStackSkipsNonPopupSlots(t *testing.T) {
	// A vertical stack without a bubble pop-up first card is not a
	// candidate, even when its name matches.
	plain := value.NewMapping()
	plain.Set("type", value.String(stackType))
	inner := value.NewSequence()
	inner.Append(markdownCard("Kitchen"))
	plain.Set("cards", inner)

	cards := value.NewSequence()
	cards.Append(plain)
	cards.Append(value.String("not even a mapping"))

	match, err := findStack(cards, "Kitchen", "kitchen", DetectByName)
	require.NoError(t, err)
	require.Equal(t, -1, match.Index)
}

func TestFindStackUnknownStrategy(t *testing.T) {
	cards := value.NewSequence()
	cards.Append(popupStack("name", value.String("Kitchen")))
	_, err := findStack(cards, "Kitchen", "kitchen", Strategy("nope"))
	var serr *StrategyError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, "nope", serr.Strategy)
}
