// Command popups keeps bubble-card pop-up stacks in a dashboard grid in
// sync with a room list and a stack template.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/urfave/cli/v2"

	popups "github.com/lovelace-tools/go-popups"
)

func main() {
	app := &cli.App{
		Name:  "popups",
		Usage: "sync bubble-card pop-up stacks in a dashboard grid",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "grid-in",
				Usage:    "path of the grid document to edit",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "rooms",
				Usage:    "path of the room list (JSON array of strings)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "template",
				Usage:    "path of the pop-up stack template",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "grid-out",
				Usage: "output path (defaults to stdout)",
			},
			&cli.StringFlag{
				Name:  "detect-by",
				Usage: "match strategy: name, hash or area",
				Value: "name",
			},
			&cli.StringFlag{
				Name:  "insert-mode",
				Usage: "splice mode: keep-index, replace or append",
				Value: "append",
			},
			&cli.IntFlag{
				Name:  "indent",
				Usage: "indent width of the output document",
				Value: 2,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "print reports and a diff instead of writing",
			},
			&cli.BoolFlag{
				Name:  "backup",
				Usage: "keep a .bak copy when overwriting the input file",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	doc, err := os.ReadFile(c.String("grid-in"))
	if err != nil {
		return err
	}
	template, err := os.ReadFile(c.String("template"))
	if err != nil {
		return err
	}
	roomsRaw, err := os.ReadFile(c.String("rooms"))
	if err != nil {
		return err
	}
	rooms, err := popups.DecodeRooms(roomsRaw)
	if err != nil {
		return err
	}

	iconMap, err := iconMapFromEnv()
	if err != nil {
		return err
	}

	cfg := popups.Config{
		Indent:     c.Int("indent"),
		DetectBy:   popups.Strategy(c.String("detect-by")),
		InsertMode: popups.InsertMode(c.String("insert-mode")),
		IconMap:    iconMap,
	}

	out, reports, err := popups.Process(doc, template, rooms, cfg)
	if err != nil {
		return err
	}

	for _, r := range reports {
		logger.Info("room processed",
			"room", r.Identifier,
			"area_id", r.AreaID,
			"action", string(r.Action),
			"index", r.Index,
			"placeholders", r.PlaceholdersUsed,
		)
		if len(r.Duplicates) > 0 {
			logger.Warn("duplicate pop-up stacks found",
				"room", r.Identifier,
				"indexes", r.Duplicates,
			)
		}
	}

	if c.Bool("dry-run") {
		return printDiff(os.Stdout, doc, out, cfg.Indent)
	}

	outPath := c.String("grid-out")
	if outPath == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	if c.Bool("backup") && outPath == c.String("grid-in") {
		if err := writeBackup(outPath, doc); err != nil {
			return err
		}
	}
	return os.WriteFile(outPath, out, 0o644)
}

// iconMapFromEnv reads LL_ICON_MAP, a JSON object mapping room names to
// icon values. An unset or empty variable yields no map.
func iconMapFromEnv() (map[string]string, error) {
	raw := os.Getenv("LL_ICON_MAP")
	if raw == "" {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("LL_ICON_MAP is not a JSON object of strings: %w", err)
	}
	return m, nil
}

// printDiff renders the dry-run patch between the reformatted input and
// the would-be output.
func printDiff(w io.Writer, doc, out []byte, indent int) error {
	before, err := popups.Reformat(doc, indent)
	if err != nil {
		return err
	}
	dmp := diffmatchpatch.New()
	patches := dmp.PatchMake(string(before), string(out))
	if len(patches) == 0 {
		_, err := fmt.Fprintln(w, "no changes")
		return err
	}
	_, err = fmt.Fprint(w, dmp.PatchToText(patches))
	return err
}

// writeBackup copies the original document next to the output path. An
// existing backup is left alone so the first pre-edit state survives
// repeated runs.
func writeBackup(path string, doc []byte) error {
	bak := path + ".bak"
	if _, err := os.Stat(bak); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(bak, doc, 0o644)
}
