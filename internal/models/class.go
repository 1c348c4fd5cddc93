package models

import "strings"

// Class is one of the seven factions a deck or an opponent belongs to.
type Class string

const (
	ClassForest Class = "Forest"
	ClassSword  Class = "Sword"
	ClassRune   Class = "Rune"
	ClassDragon Class = "Dragon"
	ClassAbyss  Class = "Abyss"
	ClassHaven  Class = "Haven"
	ClassPortal Class = "Portal"
)

// Classes lists every class in display order.
var Classes = []Class{
	ClassForest,
	ClassSword,
	ClassRune,
	ClassDragon,
	ClassAbyss,
	ClassHaven,
	ClassPortal,
}

// Valid reports whether c is one of the known classes.
func (c Class) Valid() bool {
	for _, known := range Classes {
		if c == known {
			return true
		}
	}
	return false
}

// ParseClass matches s against the known classes case-insensitively.
func ParseClass(s string) (Class, bool) {
	s = strings.TrimSpace(s)
	for _, known := range Classes {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

type Turn string

const (
	TurnFirst  Turn = "first"
	TurnSecond Turn = "second"
)

func (t Turn) Valid() bool {
	return t == TurnFirst || t == TurnSecond
}

type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
)

func (r Result) Valid() bool {
	return r == ResultWin || r == ResultLoss
}

// Mode switches between regular deck tracking and the take-two draft mode.
type Mode string

const (
	ModeNormal  Mode = "normal"
	ModeTakeTwo Mode = "take_two"
)

// Modes lists the supported modes.
var Modes = []Mode{ModeNormal, ModeTakeTwo}

func (m Mode) Valid() bool {
	return m == ModeNormal || m == ModeTakeTwo
}
