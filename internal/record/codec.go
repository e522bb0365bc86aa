package record

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrMalformedLine is wrapped by Decode for any line it rejects.
var ErrMalformedLine = errors.New("malformed record line")

// Encode renders the record as one canonical line: the kind token, each
// field as key:value in insertion order, then chkS last if a checksum is
// set. Field values are NFC-normalized at this boundary so that equivalent
// Unicode input produces identical bytes (and identical checksums).
func Encode(r Record) string {
	line := encodeBody(r)
	if r.Checksum != "" {
		line += " " + KeyChecksum + ":" + r.Checksum
	}
	return line
}

// encodeBody renders the line without the checksum field. This is the
// checksum input and the byte length recorded in the size descriptor.
func encodeBody(r Record) string {
	var b strings.Builder
	b.WriteString(string(r.kind))
	for _, f := range r.Fields {
		b.WriteByte(' ')
		b.WriteString(f.Key)
		b.WriteByte(':')
		b.WriteString(norm.NFC.String(f.Value))
	}
	return b.String()
}

// Decode parses one line back into a Record.
//
// The first token must be a known kind or the whole line is rejected.
// Remaining tokens split on the first colon; tokens without a colon are
// skipped (they are fragments of a value that embedded the space
// delimiter, which the format cannot recover). chkS becomes the checksum,
// everything else a field in encounter order. If ebbD and ebbT are both
// present the timestamp is reconstructed from them.
func Decode(line string) (Record, error) {
	parts := strings.Split(line, " ")
	if len(parts) < 2 {
		return Record{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	kind := Kind(parts[0])
	if !kind.Valid() {
		return Record{}, fmt.Errorf("%w: unknown kind %q", ErrMalformedLine, parts[0])
	}

	r := New(kind)
	for _, tok := range parts[1:] {
		key, value, ok := strings.Cut(tok, ":")
		if !ok {
			continue
		}
		if key == KeyChecksum {
			r.Checksum = value
			continue
		}
		r.Fields = append(r.Fields, Field{Key: key, Value: value})
	}

	if date, ok := r.Get(KeyDate); ok {
		if clock, ok := r.Get(KeyTime); ok {
			r.Date = date
			r.Time = clock
		}
	}

	return r, nil
}

// Finalize computes the size descriptor and checksum from the record's
// current fields. The size descriptor counts every field (itself included)
// and measures the encoded line without the checksum field; because the
// descriptor is fixed-width the measured length is stable.
func Finalize(r *Record) {
	if _, ok := r.Get(KeySize); !ok {
		r.Fields = append([]Field{{Key: KeySize}}, r.Fields...)
	}
	count := len(r.Fields)
	r.Set(KeySize, fmt.Sprintf("%03d:%08d", count, 0))
	r.Set(KeySize, fmt.Sprintf("%03d:%08d", count, len(encodeBody(*r))))
	r.Checksum = Checksum(encodeBody(*r))
}

// VerifyChecksum recomputes the checksum from the record's current fields
// and compares it to the stored one. Records without a checksum pass.
func VerifyChecksum(r Record) error {
	if r.Checksum == "" {
		return nil
	}
	want := Checksum(encodeBody(r))
	if r.Checksum != want {
		return fmt.Errorf("checksum mismatch: line has %s, content hashes to %s", r.Checksum, want)
	}
	return nil
}
