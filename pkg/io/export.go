package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/brickfall/pkg/brick"
	errs "github.com/matzehuels/brickfall/pkg/errors"
)

type snapshot struct {
	Bricks []entry `json:"bricks"`
}

type entry struct {
	ID int         `json:"id"`
	Lo brick.Coord `json:"lo"`
	Hi brick.Coord `json:"hi"`
}

// WriteBricks writes bricks in the line format, one per line in slice order.
// The output can be re-read with [ReadBricks].
func WriteBricks(w io.Writer, bricks []brick.Brick) error {
	bw := bufio.NewWriter(w)
	for _, b := range bricks {
		if _, err := fmt.Fprintln(bw, b.String()); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	return bw.Flush()
}

// WriteJSON writes bricks as an indented JSON snapshot.
func WriteJSON(w io.Writer, bricks []brick.Brick) error {
	out := snapshot{Bricks: make([]entry, len(bricks))}
	for i, b := range bricks {
		out.Bricks[i] = entry{ID: int(b.ID), Lo: b.Lo, Hi: b.Hi}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportBricks writes bricks to a file at path, using JSON when the path ends
// in ".json" and the line format otherwise.
func ExportBricks(path string, bricks []brick.Brick) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", path)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = WriteJSON(f, bricks)
	} else {
		err = WriteBricks(f, bricks)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
