package models

import "fmt"

// Mode is the game mode a beatmap is played in.
type Mode int

const (
	ModeStd   Mode = 0
	ModeTaiko Mode = 1
	ModeCTB   Mode = 2
	ModeMania Mode = 3
)

// String returns the short mode name.
func (m Mode) String() string {
	switch m {
	case ModeStd:
		return "std"
	case ModeTaiko:
		return "taiko"
	case ModeCTB:
		return "ctb"
	case ModeMania:
		return "mania"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Valid reports whether m is one of the four game modes.
func (m Mode) Valid() bool {
	return m >= ModeStd && m <= ModeMania
}
