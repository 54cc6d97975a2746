package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/brickfall/pkg/errors"
)

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a report written by [WriteJSON].
func ReadJSON(rd io.Reader) (*Report, error) {
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode report")
	}
	if len(r.Bricks) != r.BrickCount {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "report lists %d bricks, header says %d", len(r.Bricks), r.BrickCount)
	}
	return &r, nil
}

// WriteYAML writes r as a YAML document.
func WriteYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// Marshal encodes r as compact JSON for caches and stores.
func Marshal(r *Report) ([]byte, error) {
	return json.Marshal(r)
}

// Unmarshal is the inverse of [Marshal].
func Unmarshal(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode report")
	}
	return &r, nil
}
