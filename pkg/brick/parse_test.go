package brick

import (
	"testing"

	errs "github.com/matzehuels/brickfall/pkg/errors"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Brick
	}{
		{
			name: "horizontal",
			line: "1,0,1~1,2,1",
			want: Brick{ID: 4, Lo: Coord{1, 0, 1}, Hi: Coord{1, 2, 1}},
		},
		{
			name: "swapped endpoints",
			line: "1,2,1~1,0,1",
			want: Brick{ID: 4, Lo: Coord{1, 0, 1}, Hi: Coord{1, 2, 1}},
		},
		{
			name: "whitespace",
			line: "  1, 1, 8 ~ 1, 1, 9 ",
			want: Brick{ID: 4, Lo: Coord{1, 1, 8}, Hi: Coord{1, 1, 9}},
		},
		{
			name: "single cell",
			line: "5,5,5~5,5,5",
			want: Brick{ID: 4, Lo: Coord{5, 5, 5}, Hi: Coord{5, 5, 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(4, tt.line)
			if err != nil {
				t.Fatalf("ParseLine(%q) error: %v", tt.line, err)
			}
			if got != tt.want {
				t.Errorf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseLineErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		code errs.Code
	}{
		{"empty", "", errs.ErrCodeInvalidInput},
		{"missing tilde", "1,0,1,1,2,1", errs.ErrCodeInvalidBrick},
		{"three endpoints", "1,0,1~1,2,1~0,0,0", errs.ErrCodeInvalidBrick},
		{"two components", "1,0~1,2,1", errs.ErrCodeInvalidBrick},
		{"non-integer", "1,a,1~1,2,1", errs.ErrCodeInvalidBrick},
		{"negative", "1,-1,1~1,2,1", errs.ErrCodeInvalidBrick},
		{"in floor plane", "0,0,0~0,0,0", errs.ErrCodeInvalidBrick},
		{"vertical from floor", "2,2,0~2,2,3", errs.ErrCodeInvalidBrick},
		{"two spanning axes", "0,0,1~2,2,1", errs.ErrCodeInvalidBrick},
		{"control character", "1,0,1~1,2,1\x07", errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(0, tt.line)
			if err == nil {
				t.Fatalf("ParseLine(%q) succeeded, want error", tt.line)
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("ParseLine(%q) code = %v, want %v", tt.line, errs.GetCode(err), tt.code)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(Brick{ID: 0, Lo: Coord{0, 0, 1}, Hi: Coord{0, 0, 4}}); err != nil {
		t.Errorf("Validate(vertical) error: %v", err)
	}
	if err := Validate(Brick{ID: 0, Lo: Coord{0, 0, 4}, Hi: Coord{0, 0, 1}}); err == nil {
		t.Error("Validate should reject unordered corners")
	}
	if err := Validate(Brick{ID: -1, Lo: Coord{0, 0, 1}, Hi: Coord{0, 0, 1}}); err == nil {
		t.Error("Validate should reject negative ids")
	}
	if err := Validate(Brick{ID: 0, Lo: Coord{3, 0, 0}, Hi: Coord{3, 0, 0}}); !errs.Is(err, errs.ErrCodeInvalidBrick) {
		t.Errorf("Validate(floor plane) error = %v, want %s", err, errs.ErrCodeInvalidBrick)
	}
}
