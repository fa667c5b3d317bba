package popups

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lovelace-tools/go-popups/internal/parser"
	"github.com/lovelace-tools/go-popups/internal/value"
)

const testGrid = `type: grid
cards:
  - type: vertical-stack
    cards:
      - type: custom:bubble-card
        card_type: pop-up
        name: Kitchen
        hash: "#kitchen-popup"
  - type: markdown
    content: hello
`

const testTemplate = `type: vertical-stack
cards:
  - type: custom:bubble-card
    card_type: pop-up
    name: __AREA_NAME__
    hash: __HASH__
  - type: area
    area: __AREA_ID__
    tap_action:
      action: navigate
      target:
        area_id: __AREA_ID__
`

func TestProcess(t *testing.T) {
	out, reports, err := Process(
		[]byte(testGrid),
		[]byte(testTemplate),
		[]string{"Kitchen", "Büro"},
		Config{DetectBy: DetectByName},
	)
	require.NoError(t, err)

	require.Len(t, reports, 2)
	require.Equal(t, Report{
		Identifier:       "Kitchen",
		AreaID:           "kitchen",
		Action:           ActionUpdated,
		Index:            0,
		PlaceholdersUsed: true,
	}, reports[0])
	require.Equal(t, Report{
		Identifier:       "Büro",
		AreaID:           "buero",
		Action:           ActionCreated,
		Index:            2,
		PlaceholdersUsed: true,
	}, reports[1])

	root, err := parser.Parse(out)
	require.NoError(t, err)
	cardsV, ok := root.Get("cards")
	require.True(t, ok)
	cards := cardsV.(*value.Sequence)
	require.Equal(t, 3, cards.Len())

	// The kitchen slot was rewritten in place from the template.
	kitchen := cards.Items[0].(*value.Mapping)
	name, _ := firstCardString(kitchen, "name")
	require.Equal(t, "Kitchen", name)
	hash, _ := firstCardString(kitchen, "hash")
	require.Equal(t, "#kitchen-popup", hash)
	require.Equal(t, 2, mustCards(t, kitchen).Len(), "template body replaces the old stack")

	// The markdown slot is untouched and keeps its position.
	md := cards.Items[1].(*value.Mapping)
	mdType, _ := md.GetString("type")
	require.Equal(t, "markdown", mdType)

	// The new room was appended after the existing slots.
	buero := cards.Items[2].(*value.Mapping)
	name, _ = firstCardString(buero, "name")
	require.Equal(t, "Büro", name)
	hash, _ = firstCardString(buero, "hash")
	require.Equal(t, "#buero-popup", hash)

	areaCard := mustCards(t, buero).Items[1].(*value.Mapping)
	areaID, _ := areaCard.GetString("area")
	require.Equal(t, "buero", areaID)
	actionV, _ := areaCard.Get("tap_action")
	targetV, _ := actionV.(*value.Mapping).Get("target")
	targetID, _ := targetV.(*value.Mapping).GetString("area_id")
	require.Equal(t, "buero", targetID)
}

func mustCards(t *testing.T, stack *value.Mapping) *value.Sequence {
	t.Helper()
	cardsV, ok := stack.Get("cards")
	require.True(t, ok)
	cards, ok := cardsV.(*value.Sequence)
	require.True(t, ok)
	return cards
}

func TestProcessIsIdempotent(t *testing.T) {
	rooms := []string{"Kitchen", "Büro"}
	cfg := Config{DetectBy: DetectByName}

	once, _, err := Process([]byte(testGrid), []byte(testTemplate), rooms, cfg)
	require.NoError(t, err)
	twice, _, err := Process(once, []byte(testTemplate), rooms, cfg)
	require.NoError(t, err)
	require.Equal(t, string(once), string(twice))
}

func TestProcessReportsDuplicates(t *testing.T) {
	grid := `type: grid
cards:
  - type: vertical-stack
    cards:
      - type: custom:bubble-card
        card_type: pop-up
        name: Kitchen
  - type: vertical-stack
    cards:
      - type: custom:bubble-card
        card_type: pop-up
        name: kitchen
`
	_, reports, err := Process([]byte(grid), []byte(testTemplate), []string{"Kitchen"}, Config{})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Equal(t, ActionUpdated, reports[0].Action)
	require.Equal(t, 0, reports[0].Index)
	require.Equal(t, []int{1}, reports[0].Duplicates)
}

func TestProcessValidation(t *testing.T) {
	testCases := []struct {
		name     string
		doc      string
		template string
		cfg      Config
		field    string
	}{
		{
			name:     "grid root type",
			doc:      "type: markdown\ncards: []\n",
			template: testTemplate,
			field:    "type",
		},
		{
			name:     "grid cards missing",
			doc:      "type: grid\n",
			template: testTemplate,
			field:    "cards",
		},
		{
			name:     "grid cards not a sequence",
			doc:      "type: grid\ncards: 1\n",
			template: testTemplate,
			field:    "cards",
		},
		{
			name:     "template root type",
			doc:      testGrid,
			template: "type: grid\ncards: []\n",
			field:    "type",
		},
		{
			name:     "template cards empty",
			doc:      testGrid,
			template: "type: vertical-stack\ncards: []\n",
			field:    "cards",
		},
		{
			name:     "template first card not a pop-up",
			doc:      testGrid,
			template: "type: vertical-stack\ncards:\n  - type: markdown\n",
			field:    "cards",
		},
		{
			name:     "unknown insert mode",
			doc:      testGrid,
			template: testTemplate,
			cfg:      Config{InsertMode: InsertMode("sideways")},
			field:    "insertMode",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Process([]byte(tc.doc), []byte(tc.template), []string{"Kitchen"}, tc.cfg)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.field, verr.Field)
		})
	}

	t.Run("unknown strategy", func(t *testing.T) {
		_, _, err := Process([]byte(testGrid), []byte(testTemplate), nil, Config{DetectBy: Strategy("guess")})
		var serr *StrategyError
		require.ErrorAs(t, err, &serr)
	})

	t.Run("grid syntax error", func(t *testing.T) {
		_, _, err := Process([]byte("type: grid\n- oops\n"), []byte(testTemplate), nil, Config{})
		var perr *parser.SyntaxError
		require.ErrorAs(t, err, &perr)
		require.Equal(t, 2, perr.Line)
	})
}

func TestProcessInsertModesAgree(t *testing.T) {
	// All insert modes overwrite a match in place and append otherwise,
	// so the output never depends on the chosen mode.
	rooms := []string{"Kitchen", "Büro"}
	var outputs []string
	for _, mode := range []InsertMode{InsertKeepIndex, InsertReplace, InsertAppend} {
		out, _, err := Process([]byte(testGrid), []byte(testTemplate), rooms, Config{InsertMode: mode})
		require.NoError(t, err)
		outputs = append(outputs, string(out))
	}
	require.Equal(t, outputs[0], outputs[1])
	require.Equal(t, outputs[1], outputs[2])
}

func TestDecodeRooms(t *testing.T) {
	t.Run("valid list", func(t *testing.T) {
		rooms, err := DecodeRooms([]byte(`["Küche", "Bad"]`))
		require.NoError(t, err)
		require.Equal(t, []string{"Küche", "Bad"}, rooms)
	})

	t.Run("empty list", func(t *testing.T) {
		rooms, err := DecodeRooms([]byte(`[]`))
		require.NoError(t, err)
		require.Empty(t, rooms)
	})

	testCases := []struct {
		name  string
		input string
	}{
		{name: "not json", input: `[1,`},
		{name: "not a list", input: `{"a": 1}`},
		{name: "non-string element", input: `["Küche", 3]`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeRooms([]byte(tc.input))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, "rooms", verr.Field)
		})
	}
}

func TestReformat(t *testing.T) {
	out, err := Reformat([]byte("a:   1\n\n# comment\nb:\n  c: hello world\n"), 2)
	require.NoError(t, err)
	require.Equal(t, "a: 1\nb:\n  c: \"hello world\"\n", string(out))
}
