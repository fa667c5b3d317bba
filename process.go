package popups

import (
	"encoding/json"
	"fmt"

	"github.com/lovelace-tools/go-popups/internal/formatter"
	"github.com/lovelace-tools/go-popups/internal/parser"
	"github.com/lovelace-tools/go-popups/internal/value"
)

// InsertMode controls where a stack is spliced into the grid. An
// existing match is always overwritten at its index; without a match
// every mode appends, so keep-index and replace currently behave
// identically.
type InsertMode string

const (
	InsertKeepIndex InsertMode = "keep-index"
	InsertReplace   InsertMode = "replace"
	InsertAppend    InsertMode = "append"
)

// Config is the processing bundle for one batch run.
type Config struct {
	// Indent is the serializer's indent width; zero means the default
	// of two spaces.
	Indent int
	// DetectBy selects the match strategy. Empty means DetectByName.
	DetectBy Strategy
	// InsertMode controls splicing. Empty means InsertAppend.
	InsertMode InsertMode
	// IconMap optionally maps room names to icon values for the
	// __ICON__ placeholder and the first card's icon field.
	IconMap map[string]string
}

// Report describes what happened to one room.
type Report struct {
	Identifier       string
	AreaID           string
	Action           Action
	Index            int
	Duplicates       []int
	PlaceholdersUsed bool
}

// Action says whether a room's stack was newly appended or overwrote an
// existing slot.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// Process edits a dashboard grid: for every room, it locates the
// matching pop-up stack (or appends a new slot), instantiates the
// template for that room, and splices the result in. Rooms are handled
// strictly in input order, so slot order is deterministic.
//
// All validation runs before the first mutation; any error aborts the
// whole batch and no output text is produced.
func Process(doc, template []byte, rooms []string, cfg Config) ([]byte, []Report, error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}

	grid, err := parser.Parse(doc)
	if err != nil {
		return nil, nil, err
	}
	cards, err := validateGrid(grid)
	if err != nil {
		return nil, nil, err
	}

	tmpl, err := parser.Parse(template)
	if err != nil {
		return nil, nil, err
	}
	if err := validateTemplate(tmpl); err != nil {
		return nil, nil, err
	}

	reports := make([]Report, 0, len(rooms))
	for _, room := range rooms {
		areaID := Slugify(room)
		match, err := findStack(cards, room, areaID, cfg.strategy())
		if err != nil {
			return nil, nil, err
		}

		app := applyTemplate(tmpl, room, areaID, cfg.IconMap)

		report := Report{
			Identifier:       room,
			AreaID:           areaID,
			Duplicates:       match.Duplicates,
			PlaceholdersUsed: app.placeholdersUsed,
		}
		if match.Index >= 0 {
			cards.Items[match.Index] = app.stack
			report.Action = ActionUpdated
			report.Index = match.Index
		} else {
			cards.Append(app.stack)
			report.Action = ActionCreated
			report.Index = cards.Len() - 1
		}
		reports = append(reports, report)
	}

	return []byte(formatter.Format(grid, cfg.Indent)), reports, nil
}

// Reformat parses a document and serializes it back with the package's
// conventions. Useful for producing the "before" text of a diff.
func Reformat(doc []byte, indent int) ([]byte, error) {
	tree, err := parser.Parse(doc)
	if err != nil {
		return nil, err
	}
	return []byte(formatter.Format(tree, indent)), nil
}

// DecodeRooms reads the room list payload: a JSON array of strings.
func DecodeRooms(data []byte) ([]string, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Field: "rooms", Msg: fmt.Sprintf("payload is not valid JSON: %v", err)}
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &ValidationError{Field: "rooms", Msg: "payload must be a list of strings"}
	}
	rooms := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, &ValidationError{Field: "rooms", Msg: fmt.Sprintf("element %d is not a string", i)}
		}
		rooms[i] = s
	}
	return rooms, nil
}

func (c Config) strategy() Strategy {
	if c.DetectBy == "" {
		return DetectByName
	}
	return c.DetectBy
}

func (c Config) validate() error {
	switch c.DetectBy {
	case "", DetectByName, DetectByHash, DetectByArea:
	default:
		return &StrategyError{Strategy: string(c.DetectBy)}
	}
	switch c.InsertMode {
	case "", InsertKeepIndex, InsertReplace, InsertAppend:
	default:
		return &ValidationError{Field: "insertMode", Msg: fmt.Sprintf("unknown mode %q", c.InsertMode)}
	}
	return nil
}

// validateGrid checks the document's structural contract and returns its
// slot sequence.
func validateGrid(root *value.Mapping) (*value.Sequence, error) {
	if t, ok := root.GetString("type"); !ok || t != gridType {
		return nil, &ValidationError{Field: "type", Msg: fmt.Sprintf("document root must have type %q", gridType)}
	}
	cardsV, ok := root.Get("cards")
	if !ok {
		return nil, &ValidationError{Field: "cards", Msg: "document must contain a 'cards' sequence"}
	}
	cards, ok := cardsV.(*value.Sequence)
	if !ok {
		return nil, &ValidationError{Field: "cards", Msg: "'cards' must be a sequence"}
	}
	return cards, nil
}

// validateTemplate checks the template's structural contract: a vertical
// stack whose first card is a bubble-card pop-up.
func validateTemplate(root *value.Mapping) error {
	if t, ok := root.GetString("type"); !ok || t != stackType {
		return &ValidationError{Field: "type", Msg: fmt.Sprintf("template root must have type %q", stackType)}
	}
	cardsV, ok := root.Get("cards")
	if !ok {
		return &ValidationError{Field: "cards", Msg: "template must contain a 'cards' sequence"}
	}
	cards, ok := cardsV.(*value.Sequence)
	if !ok || cards.Len() == 0 {
		return &ValidationError{Field: "cards", Msg: "template 'cards' must be a non-empty sequence"}
	}
	first, ok := cards.Items[0].(*value.Mapping)
	if !ok {
		return &ValidationError{Field: "cards", Msg: "template first card must be a mapping"}
	}
	if t, ok := first.GetString("type"); !ok || t != bubbleType {
		return &ValidationError{Field: "cards", Msg: fmt.Sprintf("template first card must have type %q", bubbleType)}
	}
	if ct, ok := first.GetString("card_type"); !ok || ct != bubbleCard {
		return &ValidationError{Field: "cards", Msg: fmt.Sprintf("template first card must have card_type %q", bubbleCard)}
	}
	return nil
}
