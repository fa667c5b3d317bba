package popups

import "github.com/lovelace-tools/go-popups/internal/value"

// Placeholder tokens understood by the substitution pass.
const (
	placeholderAreaName = "__AREA_NAME__"
	placeholderAreaID   = "__AREA_ID__"
	placeholderHash     = "__HASH__"
	placeholderIcon     = "__ICON__"
)

// application is the outcome of rewriting a template clone for one room.
type application struct {
	stack            *value.Mapping
	placeholdersUsed bool
	iconResolved     bool
}

// applyTemplate clones the template and rewrites the clone for one room.
// The clone is deep, so applying the same template across many rooms
// never shares mutable state.
//
// Two passes run over the clone. The placeholder pass replaces string
// scalars that exactly equal a placeholder token. The heuristic pass is
// unconditional: it binds the identity fields (area, target.area_id and
// the first card's name/hash/icon) even when the template uses no
// placeholders at all.
func applyTemplate(template *value.Mapping, room, areaID string, iconMap map[string]string) application {
	app := application{stack: template.Clone().(*value.Mapping)}

	iconValue, hasIcon := "", false
	if iconMap != nil {
		iconValue, hasIcon = iconMap[room]
	}

	replacements := map[string]string{
		placeholderAreaName: room,
		placeholderAreaID:   areaID,
		placeholderHash:     anchorToken(areaID),
	}

	value.Walk(app.stack, func(v value.Value, parent value.Value, key any) {
		s, ok := v.(value.String)
		if !ok || parent == nil {
			return
		}
		if rep, ok := replacements[string(s)]; ok {
			setChild(parent, key, value.String(rep))
			app.placeholdersUsed = true
			return
		}
		if string(s) == placeholderIcon && hasIcon {
			setChild(parent, key, value.String(iconValue))
			app.placeholdersUsed = true
			app.iconResolved = true
		}
	})

	value.Walk(app.stack, func(v value.Value, parent value.Value, key any) {
		k, ok := key.(string)
		if !ok {
			return
		}
		pm, ok := parent.(*value.Mapping)
		if !ok {
			return
		}
		if k == "area" {
			pm.Set("area", value.String(areaID))
			return
		}
		if k == "target" {
			if target, ok := v.(*value.Mapping); ok && target.Has("area_id") {
				target.Set("area_id", value.String(areaID))
			}
		}
	})

	if bubble, ok := firstCard(app.stack); ok {
		if bubble.Has("name") {
			bubble.Set("name", value.String(room))
		}
		if bubble.Has("hash") {
			bubble.Set("hash", value.String(anchorToken(areaID)))
		}
		if bubble.Has("icon") && hasIcon {
			bubble.Set("icon", value.String(iconValue))
		}
	}

	return app
}

func setChild(parent value.Value, key any, v value.Value) {
	switch p := parent.(type) {
	case *value.Mapping:
		p.Set(key.(string), v)
	case *value.Sequence:
		p.Items[key.(int)] = v
	}
}
