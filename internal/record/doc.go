// Package record defines the EBB record model and its canonical line codec.
//
// A record is one line of the native format: a kind token (MD, DD or RD)
// followed by space-delimited key:value fields, with the integrity checksum
// field chkS last when present. Field order is significant - it is part of
// the encoded byte length recorded in the size descriptor and of the
// checksum input - and is preserved verbatim through decode/encode.
package record
