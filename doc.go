/*
Package popups rewrites Lovelace dashboard grids: it locates the pop-up
stack belonging to each room, or creates one from a template, and splices
the result back into the grid.

The package carries its own markup engine for the restricted block/inline
dialect the dashboards are written in. Documents are parsed into a mutable
value tree, edited in place, and serialized back with stable conventions,
so a parse/stringify round trip preserves the tree.

The one-call entry point is Process:

	out, reports, err := popups.Process(grid, template, rooms, popups.Config{
		DetectBy: popups.DetectByName,
	})

Process validates the grid, the template and the configuration before any
mutation, then handles the rooms strictly in input order. Each room yields
one Report describing whether its stack was created or updated, at which
slot index, and whether further (duplicate) matches were found. Duplicates
are never merged: the first match wins and the rest are reported.

Templates may use the placeholder tokens __AREA_NAME__, __AREA_ID__,
__HASH__ and __ICON__. Independently of placeholders, a heuristic pass
binds the identity fields (area, target.area_id, and the first card's
name and hash) to the room being processed, so placeholder-free templates
work too.
*/
package popups
