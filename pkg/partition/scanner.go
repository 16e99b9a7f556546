package partition

import (
	"bufio"
	"errors"
	"io"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/hyperagg/internal/constants"
	"github.com/hyp3rd/hyperagg/internal/sentinel"
)

// Scanner streams the records of one Range through a fixed size read buffer.
// Records are returned without their terminator and without a trailing '\r'.
// The final record of the range is returned even when it is not terminated.
type Scanner struct {
	rng    Range
	rd     *bufio.Reader
	record []byte
	carry  []byte
	line   int64
	offset int64
	next   int64
	done   bool
	err    error
}

// NewScanner returns a scanner over rng of src using a read buffer of bufSize bytes.
func NewScanner(src io.ReaderAt, rng Range, bufSize int) *Scanner {
	if bufSize < constants.MinReadBufferSize {
		bufSize = constants.MinReadBufferSize
	}

	return &Scanner{
		rng:  rng,
		rd:   bufio.NewReaderSize(io.NewSectionReader(src, rng.Start, rng.Len()), bufSize),
		next: rng.Start,
	}
}

// Scan advances to the next record. It returns false at the end of the range
// or on error; Err tells the two apart.
func (s *Scanner) Scan() bool {
	if s.done || s.err != nil {
		return false
	}

	raw, ok := s.readRecord()
	if !ok {
		return false
	}

	s.offset = s.next
	s.next += int64(len(raw))
	s.line++

	raw = trimTerminator(raw)
	if len(raw) > constants.MaxRecordSize {
		s.err = tooLong(s.offset)

		return false
	}

	s.record = raw

	return true
}

// readRecord returns the next raw record including its terminator, if any.
func (s *Scanner) readRecord() ([]byte, bool) {
	s.carry = s.carry[:0]

	for {
		part, err := s.rd.ReadSlice(constants.RecordTerminator)
		if err == nil {
			return s.join(part)
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			// Two bytes of slack for a "\r\n" terminator.
			if len(s.carry)+len(part) > constants.MaxRecordSize+2 {
				s.err = tooLong(s.next)

				return nil, false
			}

			s.carry = append(s.carry, part...)

			continue
		}

		if errors.Is(err, io.EOF) {
			s.done = true

			if len(part) == 0 && len(s.carry) == 0 {
				return nil, false
			}

			return s.join(part)
		}

		s.err = ewrap.Wrapf(sentinel.ErrIO, "reading partition %d: %v", s.rng.Index, err)

		return nil, false
	}
}

func (s *Scanner) join(part []byte) ([]byte, bool) {
	if len(s.carry) == 0 {
		return part, true
	}

	s.carry = append(s.carry, part...)

	return s.carry, true
}

func tooLong(offset int64) error {
	return ewrap.Wrapf(sentinel.ErrRecordTooLong, "record at offset %d exceeds %d bytes", offset, constants.MaxRecordSize)
}

func trimTerminator(raw []byte) []byte {
	if n := len(raw); n > 0 && raw[n-1] == constants.RecordTerminator {
		raw = raw[:n-1]
	}

	if n := len(raw); n > 0 && raw[n-1] == '\r' {
		raw = raw[:n-1]
	}

	return raw
}

// Record returns the current record. It is only valid until the next call to Scan.
func (s *Scanner) Record() []byte {
	return s.record
}

// Line returns the 1-based number of the current record within the range.
func (s *Scanner) Line() int64 {
	return s.line
}

// Offset returns the absolute byte offset of the current record.
func (s *Scanner) Offset() int64 {
	return s.offset
}

// Err returns the first error met by the scanner, nil at a clean end of range.
func (s *Scanner) Err() error {
	return s.err
}
