package popups

import (
	"strings"

	"github.com/lovelace-tools/go-popups/internal/value"
)

// Strategy selects how an existing pop-up stack is recognized.
type Strategy string

const (
	// DetectByName compares the first card's name field, ignoring case
	// and surrounding space.
	DetectByName Strategy = "name"
	// DetectByHash compares the first card's hash field against the
	// formatted anchor token.
	DetectByHash Strategy = "hash"
	// DetectByArea searches the whole stack for an explicit area
	// identifier field.
	DetectByArea Strategy = "area"
)

// StackMatch is the result of scanning a grid for a room's stack. Index
// is -1 when nothing matched. Additional matches are reported as
// Duplicates in ascending order and never silently merged.
type StackMatch struct {
	Index      int
	Duplicates []int
}

const (
	gridType   = "grid"
	stackType  = "vertical-stack"
	bubbleType = "custom:bubble-card"
	bubbleCard = "pop-up"
)

// findStack scans the grid's card slots for the stack belonging to a
// room. Only slots that pass the pop-up stack predicate are considered.
func findStack(cards *value.Sequence, room, areaID string, strategy Strategy) (StackMatch, error) {
	match := StackMatch{Index: -1}
	wantName := normalizeRoom(room)
	wantHash := anchorToken(areaID)

	for i, slot := range cards.Items {
		stack, ok := slot.(*value.Mapping)
		if !ok || !isPopupStack(stack) {
			continue
		}

		var hit bool
		switch strategy {
		case DetectByName:
			if name, ok := firstCardString(stack, "name"); ok {
				hit = normalizeRoom(name) == wantName
			}
		case DetectByHash:
			if hash, ok := firstCardString(stack, "hash"); ok {
				hit = hash == wantHash
			}
		case DetectByArea:
			if area, ok := extractArea(stack); ok {
				hit = area == areaID
			}
		default:
			return match, &StrategyError{Strategy: string(strategy)}
		}

		if !hit {
			continue
		}
		if match.Index < 0 {
			match.Index = i
		} else {
			match.Duplicates = append(match.Duplicates, i)
		}
	}
	return match, nil
}

// isPopupStack reports whether a slot is a wrapped single-purpose
// pop-up card group: a vertical stack whose first card is a bubble-card
// pop-up.
func isPopupStack(stack *value.Mapping) bool {
	if t, ok := stack.GetString("type"); !ok || t != stackType {
		return false
	}
	first, ok := firstCard(stack)
	if !ok {
		return false
	}
	if t, ok := first.GetString("type"); !ok || t != bubbleType {
		return false
	}
	ct, ok := first.GetString("card_type")
	return ok && ct == bubbleCard
}

func firstCard(stack *value.Mapping) (*value.Mapping, bool) {
	cardsV, ok := stack.Get("cards")
	if !ok {
		return nil, false
	}
	cards, ok := cardsV.(*value.Sequence)
	if !ok || cards.Len() == 0 {
		return nil, false
	}
	first, ok := cards.Items[0].(*value.Mapping)
	return first, ok
}

func firstCardString(stack *value.Mapping, key string) (string, bool) {
	first, ok := firstCard(stack)
	if !ok {
		return "", false
	}
	return first.GetString(key)
}

// extractArea finds the first explicit area identifier in a subtree: an
// "area" string field, or an "area_id" string inside a "target" mapping,
// searched depth-first in document order.
func extractArea(v value.Value) (string, bool) {
	switch node := v.(type) {
	case *value.Mapping:
		if area, ok := node.GetString("area"); ok {
			return area, true
		}
		if targetV, ok := node.Get("target"); ok {
			if target, ok := targetV.(*value.Mapping); ok {
				if areaID, ok := target.GetString("area_id"); ok {
					return areaID, true
				}
			}
		}
		for _, key := range node.Keys() {
			child, _ := node.Get(key)
			if area, ok := extractArea(child); ok {
				return area, true
			}
		}
	case *value.Sequence:
		for _, item := range node.Items {
			if area, ok := extractArea(item); ok {
				return area, true
			}
		}
	}
	return "", false
}

func normalizeRoom(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
