package tetris

import "time"

// Points awarded per cell of manual descent.
const (
	SoftDropPoints = 1
	HardDropPoints = 2
)

// ComboBonus is awarded per consecutive clearing lock beyond the first.
const ComboBonus = 50

// LinesPerLevel is the number of cleared lines between level increases.
const LinesPerLevel = 10

// Descent cadence bounds.
const (
	BaseDropInterval = 1000 * time.Millisecond
	DropIntervalStep = 50 * time.Millisecond
	MinDropInterval  = 100 * time.Millisecond
)

var lineClearScores = [...]int{0, 100, 300, 500, 800}

// LineClearPoints returns the score for clearing lines at once with the given
// combo count (already including this clear) and level.
func LineClearPoints(lines, combo, level int) int {
	if lines <= 0 {
		return 0
	}
	if lines >= len(lineClearScores) {
		lines = len(lineClearScores) - 1
	}
	points := lineClearScores[lines]
	if combo > 1 {
		points += (combo - 1) * ComboBonus
	}
	return points * level
}

// LevelForLines returns the level reached after clearing the given number of
// lines.
func LevelForLines(lines int) int {
	return lines/LinesPerLevel + 1
}

// DropInterval returns the automatic descent period for a level.
func DropInterval(level int) time.Duration {
	interval := BaseDropInterval - time.Duration(level-1)*DropIntervalStep
	if interval < MinDropInterval {
		return MinDropInterval
	}
	return interval
}
