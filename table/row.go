package table

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Column sizes, fixed by the schema: an unsigned 32-bit id, a username of
// at most 32 bytes, and an email of at most 255 bytes. Both strings are
// stored in NUL-terminated fixed-width slots.
const (
	IDSize       = 4
	UsernameSize = 33
	EmailSize    = 256

	MaxUsernameLen = UsernameSize - 1
	MaxEmailLen    = EmailSize - 1

	idOffset       = 0
	usernameOffset = idOffset + IDSize
	emailOffset    = usernameOffset + UsernameSize

	// RowSize is the total on-disk size of a serialized row.
	RowSize = IDSize + UsernameSize + EmailSize
)

// Row is one table record: a 32-bit id and two ASCII strings.
type Row struct {
	ID       uint32
	Username string
	Email    string
}

// SerializeRow writes row into dst, which must be exactly RowSize bytes.
// Username and Email are copied into their fixed-width, zero-filled slots;
// a value of MaxUsernameLen/MaxEmailLen bytes or fewer is NUL-terminated,
// while a longer one is truncated to the full slot width with no NUL.
// Callers that need to reject overlong strings must check before calling
// this (see the parser's prepare-insert validation).
func SerializeRow(row Row, dst []byte) error {
	if len(dst) != RowSize {
		return fmt.Errorf("table: SerializeRow: dst length %d, want %d", len(dst), RowSize)
	}
	for i := range dst {
		dst[i] = 0
	}
	binary.LittleEndian.PutUint32(dst[idOffset:idOffset+IDSize], row.ID)
	copy(dst[usernameOffset:usernameOffset+UsernameSize], row.Username)
	copy(dst[emailOffset:emailOffset+EmailSize], row.Email)
	return nil
}

// DeserializeRow reads a Row out of src, which must be exactly RowSize
// bytes. Strings stop at the first NUL in their slot.
func DeserializeRow(src []byte) (Row, error) {
	if len(src) != RowSize {
		return Row{}, fmt.Errorf("table: DeserializeRow: src length %d, want %d", len(src), RowSize)
	}
	id := binary.LittleEndian.Uint32(src[idOffset : idOffset+IDSize])
	username := trimNUL(src[usernameOffset : usernameOffset+UsernameSize])
	email := trimNUL(src[emailOffset : emailOffset+EmailSize])
	return Row{ID: id, Username: username, Email: email}, nil
}

func trimNUL(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
