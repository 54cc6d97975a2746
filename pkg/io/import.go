package io

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/brickfall/pkg/brick"
	errs "github.com/matzehuels/brickfall/pkg/errors"
)

// ReadBricks decodes the line format from r.
//
// Each brick gets the ID of its position among non-blank lines. Parse errors
// are wrapped with the 1-based line number and keep the brick parser's code,
// so callers can still test for errors.ErrCodeInvalidBrick.
//
// ReadBricks does not close r.
func ReadBricks(r io.Reader) ([]brick.Brick, error) {
	var bricks []brick.Brick

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		b, err := brick.ParseLine(brick.ID(len(bricks)), line)
		if err != nil {
			return nil, errs.Wrap(codeOf(err), err, "line %d", lineNo)
		}
		bricks = append(bricks, b)
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read bricks")
	}
	return bricks, nil
}

// ReadJSON decodes a JSON snapshot from r. IDs are assigned by position and
// every brick is validated.
func ReadJSON(r io.Reader) ([]brick.Brick, error) {
	var data snapshot
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode")
	}

	bricks := make([]brick.Brick, len(data.Bricks))
	for i, e := range data.Bricks {
		b := brick.New(brick.ID(i), e.Lo, e.Hi)
		if err := brick.Validate(b); err != nil {
			return nil, errs.Wrap(codeOf(err), err, "brick %d", i)
		}
		bricks[i] = b
	}
	return bricks, nil
}

// ImportBricks reads a snapshot file at path. Files ending in ".json" are
// decoded with [ReadJSON]; everything else with [ReadBricks].
func ImportBricks(path string) ([]brick.Brick, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadJSON(f)
	}
	return ReadBricks(f)
}

func codeOf(err error) errs.Code {
	if c := errs.GetCode(err); c != "" {
		return c
	}
	return errs.ErrCodeInvalidInput
}
