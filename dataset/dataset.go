// SPDX-License-Identifier: MIT
// Package dataset loads fixed-width bitmap samples (optdigits style) into a
// matrix and renders rows back as ASCII bitmaps.
//
// Input format: whitespace-separated tokens, one sample per token. The first
// character of every token is a marker and is dropped; each remaining
// character is one digit-valued pixel. Short samples are right-padded with
// zeros up to the requested width.
//
// Tokens are split on any whitespace, line breaks included, so a sample
// never continues on the next line. Files that wrap one sample across
// several lines must be joined before parsing.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/katalvlaran/deepbelief/matrix"
)

const padDigit = '0'

var (
	// ErrInvalidWidth indicates a non-positive sample width.
	ErrInvalidWidth = errors.New("dataset: width must be > 0")
	// ErrRowTooLong indicates a sample with more pixels than the width.
	ErrRowTooLong = errors.New("dataset: sample longer than width")
	// ErrInvalidDigit indicates a pixel that is not a decimal digit.
	ErrInvalidDigit = errors.New("dataset: pixel is not a digit")
	// ErrEmpty indicates input without any sample.
	ErrEmpty = errors.New("dataset: no samples")
)

// Parse reads every sample from r into an N × width matrix.
//
// Errors: ErrInvalidWidth, ErrRowTooLong, ErrInvalidDigit, ErrEmpty, or the
// reader's own error.
func Parse(r io.Reader, width int) (*matrix.Dense, error) {
	if width <= 0 {
		return nil, fmt.Errorf("dataset: Parse(%d): %w", width, ErrInvalidWidth)
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	sc.Split(bufio.ScanWords)

	var rows [][]float64
	for sc.Scan() {
		row, err := parseToken(sc.Text(), width)
		if err != nil {
			return nil, fmt.Errorf("dataset: sample %d: %w", len(rows), err)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dataset: read: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	return matrix.NewDenseFrom(rows)
}

// parseToken drops the marker character and decodes the remaining pixels.
func parseToken(tok string, width int) ([]float64, error) {
	pixels := tok[1:] // ScanWords never yields an empty token
	if len(pixels) > width {
		return nil, fmt.Errorf("%d pixels, width %d: %w", len(pixels), width, ErrRowTooLong)
	}
	row := make([]float64, width)
	for i := 0; i < width; i++ {
		c := byte(padDigit)
		if i < len(pixels) {
			c = pixels[i]
		}
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("pixel %d %q: %w", i, c, ErrInvalidDigit)
		}
		row[i] = float64(c - '0')
	}

	return row, nil
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string, width int) (*matrix.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()

	return Parse(f, width)
}

// PrintMap writes row as a bitmap with cols pixels per line. Every line,
// including the first, starts with a newline; values are rounded to integers.
func PrintMap(w io.Writer, row []float64, cols int) error {
	if cols <= 0 {
		return fmt.Errorf("dataset: PrintMap(%d): %w", cols, ErrInvalidWidth)
	}
	bw := bufio.NewWriter(w)
	for i, v := range row {
		if i%cols == 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(bw, "%.0f", math.Round(v)); err != nil {
			return err
		}
	}

	return bw.Flush()
}
