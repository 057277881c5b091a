package oi

import "errors"

var (
	// ErrUnknownPacketID indicates a sensor packet ID the decoder cannot size
	ErrUnknownPacketID = errors.New("unknown sensor packet id")

	// ErrTruncated indicates a sensor packet ended in the middle of a field
	ErrTruncated = errors.New("truncated sensor packet")

	// ErrChecksum indicates a stream frame failed its checksum
	ErrChecksum = errors.New("stream frame checksum mismatch")

	// ErrSongTooLong indicates a song definition exceeds the device limit
	ErrSongTooLong = errors.New("song too long")
)
