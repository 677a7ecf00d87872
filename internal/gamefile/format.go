// Package gamefile reads and writes the on-disk game: a short header followed
// by the packed state word, guarded by a lockfile.
package gamefile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"

	"github.com/jaminalder/bitboard-tic-tac-toe/internal/domain"
)

// Errors returned while decoding a game file.
var (
	ErrCorrupt          = errors.New("game data file is corrupt")
	ErrUnknownByteOrder = errors.New("game data file has an unknown byte order")
)

const (
	version1 byte = 1

	byteOrderMark     uint32 = 0xaabbccdd
	byteOrderReversed uint32 = 0xddccbbaa

	headerSize = len(magic) + 1
	bodySize   = 8
	fileSize   = headerSize + bodySize
)

// "\x89ttt\r\n\x1a\n"
var magic = [8]byte{0x89, 't', 't', 't', '\r', '\n', 0x1a, '\n'}

// Encode returns the file contents for st.
func Encode(st domain.State) []byte {
	buf := make([]byte, fileSize)
	copy(buf, magic[:])
	buf[len(magic)] = version1
	binary.LittleEndian.PutUint32(buf[headerSize:], byteOrderMark)
	binary.LittleEndian.PutUint32(buf[headerSize+4:], st.Word())
	return buf
}

// Decode parses file contents. Files written with the opposite byte order
// are swapped back. The recovered word must be a valid state.
func Decode(data []byte) (domain.State, error) {
	if len(data) < fileSize {
		return domain.State{}, fmt.Errorf("%w: %d bytes is too short", ErrCorrupt, len(data))
	}
	if !bytes.Equal(data[:len(magic)], magic[:]) || data[len(magic)] != version1 {
		return domain.State{}, ErrCorrupt
	}
	word := binary.LittleEndian.Uint32(data[headerSize+4:])
	switch binary.LittleEndian.Uint32(data[headerSize:]) {
	case byteOrderMark:
	case byteOrderReversed:
		word = bits.ReverseBytes32(word)
	default:
		return domain.State{}, ErrUnknownByteOrder
	}
	st, err := domain.FromWord(word)
	if err != nil {
		return domain.State{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return st, nil
}
