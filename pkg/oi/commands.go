package oi

import "fmt"

// Start wakes the Open Interface into passive mode.
func Start() []byte { return []byte{OpStart} }

// Safe enters safe mode, required before songs can be played.
func Safe() []byte { return []byte{OpSafe} }

// Power powers the device down.
func Power() []byte { return []byte{OpPower} }

// Spot starts a spot clean.
func Spot() []byte { return []byte{OpSpot} }

// Clean starts or pauses a default cleaning cycle.
func Clean() []byte { return []byte{OpClean} }

// SeekDock sends the device back to its dock.
func SeekDock() []byte { return []byte{OpSeekDock} }

// PlaySong plays a previously defined song slot.
func PlaySong(num byte) []byte { return []byte{OpPlaySong, num} }

// Stream requests a continuous stream of the given sensor packets.
// An empty list clears the stream.
func Stream(ids ...byte) []byte {
	cmd := make([]byte, 0, len(ids)+2)
	cmd = append(cmd, OpStream, byte(len(ids)))
	return append(cmd, ids...)
}

// PauseStream pauses the sensor stream without forgetting it.
func PauseStream() []byte { return []byte{OpStreamToggle, streamCommandPause} }

// ResumeStream resumes a paused sensor stream.
func ResumeStream() []byte { return []byte{OpStreamToggle, streamCommandResume} }

// Song defines a song slot from (note, duration) pairs.
func Song(num byte, notes []byte) ([]byte, error) {
	if len(notes)%2 != 0 {
		return nil, fmt.Errorf("song %d: odd note data length %d", num, len(notes))
	}
	if len(notes)/2 > maxSongNotes {
		return nil, fmt.Errorf("%w: song %d has %d notes", ErrSongTooLong, num, len(notes)/2)
	}

	cmd := make([]byte, 0, len(notes)+3)
	cmd = append(cmd, OpSong, num, byte(len(notes)/2))
	return append(cmd, notes...), nil
}
