// Package record decodes raw `<key>;<value>` lines into keyed observations.
//
// Values are narrowed to single precision. Every malformed line is rejected
// with a *ParseError; nothing is skipped.
package record

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"unsafe"

	"github.com/hyp3rd/hyperagg/internal/constants"
	"github.com/hyp3rd/hyperagg/internal/sentinel"
)

// Record is one parsed observation.
type Record struct {
	Key   string
	Value float32
}

// ParseError describes a malformed record.
type ParseError struct {
	// Line is the 1-based line number of the record in the input, 0 when unknown.
	Line int64
	// Offset is the byte offset of the record in the input.
	Offset int64
	// Record is a copy of the offending line.
	Record string
	// Reason tells what is wrong with it.
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error: line %d (offset %d): %s: %q", e.Line, e.Offset, e.Reason, e.Record)
	}

	return fmt.Sprintf("parse error: offset %d: %s: %q", e.Offset, e.Reason, e.Record)
}

// Unwrap lets errors.Is match sentinel.ErrParse.
func (e *ParseError) Unwrap() error {
	return sentinel.ErrParse
}

// Parser splits records on a single byte delimiter.
type Parser struct {
	delim byte
}

// NewParser returns a parser splitting on delim.
func NewParser(delim byte) Parser {
	return Parser{delim: delim}
}

// Delimiter returns the byte the parser splits on.
func (p Parser) Delimiter() byte {
	return p.delim
}

// Split decodes line without copying the key. The returned key aliases line.
func (p Parser) Split(line []byte) ([]byte, float32, error) {
	sep := bytes.IndexByte(line, p.delim)
	if sep < 0 {
		return nil, 0, malformed(line, "missing delimiter")
	}

	if sep == 0 {
		return nil, 0, malformed(line, "empty key")
	}

	raw := line[sep+1:]
	if !isDecimal(raw) {
		return nil, 0, malformed(line, "value is not a decimal number")
	}

	value, err := strconv.ParseFloat(unsafe.String(unsafe.SliceData(raw), len(raw)), 32)
	if err != nil || math.IsInf(value, 0) {
		return nil, 0, malformed(line, "value out of single precision range")
	}

	return line[:sep], float32(value), nil
}

// Parse decodes line into a Record owning its key.
func (p Parser) Parse(line []byte) (Record, error) {
	key, value, err := p.Split(line)
	if err != nil {
		return Record{}, err
	}

	return Record{Key: string(key), Value: value}, nil
}

// Parse decodes line with the default delimiter.
func Parse(line []byte) (Record, error) {
	return NewParser(constants.DefaultDelimiter).Parse(line)
}

func malformed(line []byte, reason string) *ParseError {
	return &ParseError{Record: string(line), Reason: reason}
}

// isDecimal accepts [+-]digits[.digits][(e|E)[+-]digits] with at least one digit
// in the mantissa. Hex floats, underscores, NaN and Inf are rejected.
func isDecimal(s []byte) bool {
	i, n := 0, len(s)
	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < n && isDigit(s[i]) {
		i++
		digits++
	}

	if i < n && s[i] == '.' {
		i++

		for i < n && isDigit(s[i]) {
			i++
			digits++
		}
	}

	if digits == 0 {
		return false
	}

	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}

		exp := 0
		for i < n && isDigit(s[i]) {
			i++
			exp++
		}

		if exp == 0 {
			return false
		}
	}

	return i == n
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
