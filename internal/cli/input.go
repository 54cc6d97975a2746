package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/brickfall/pkg/brick"
	bio "github.com/matzehuels/brickfall/pkg/io"
)

// stdinName is the input argument that selects standard input.
const stdinName = "-"

// readInput loads a brick snapshot from path, or from stdin when path is
// empty or "-".
func readInput(ctx context.Context, path string, stdin io.Reader) ([]brick.Brick, error) {
	logger := loggerFromContext(ctx)

	var (
		bricks []brick.Brick
		err    error
	)
	if path == "" || path == stdinName {
		bricks, err = bio.ReadBricks(stdin)
		path = "stdin"
	} else {
		bricks, err = bio.ImportBricks(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	logger.Debugf("Loaded %d bricks from %s", len(bricks), path)
	return bricks, nil
}

// inputArg returns the optional positional input argument.
func inputArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// openOutput returns a writer for path, or w itself when path is empty.
func openOutput(path string, w io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{w}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(path string, w io.Writer, data []byte) error {
	out, err := openOutput(path, w)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
