package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorAdvance(t *testing.T) {
	c := NewCursor(50, 20, 270, nil)

	c.Advance(10)
	assert.Equal(t, 60.0, c.Y())
	assert.Equal(t, 1, c.Page())
}

func TestCursorEnsureRoomFits(t *testing.T) {
	c := NewCursor(50, 20, 270, nil)
	c.Advance(200) // y = 250

	assert.False(t, c.EnsureRoom(20), "exactly reaching the threshold still fits")
	assert.Equal(t, 250.0, c.Y())
	assert.Equal(t, 1, c.Page())
}

func TestCursorEnsureRoomBreaks(t *testing.T) {
	var started []int
	c := NewCursor(50, 20, 270, func(page int) { started = append(started, page) })
	c.Advance(215) // y = 265

	assert.True(t, c.EnsureRoom(6))
	assert.Equal(t, 20.0, c.Y())
	assert.Equal(t, 2, c.Page())
	assert.Equal(t, []int{1, 2}, started)
}

func TestCursorFreshPageDoesNotBreakAgain(t *testing.T) {
	c := NewCursor(50, 20, 270, nil)
	c.Advance(215)
	c.EnsureRoom(10)

	// taller than a whole page: place it anyway instead of emitting blank pages
	assert.False(t, c.EnsureRoom(400))
	assert.Equal(t, 2, c.Page())

	c.Advance(5)
	assert.True(t, c.EnsureRoom(400))
	assert.Equal(t, 3, c.Page())
}

func TestCursorPerLinePlacement(t *testing.T) {
	c := NewCursor(20, 20, 270, nil)

	// 120 lines of 5mm need three pages of 50 lines each
	for i := 0; i < 120; i++ {
		c.EnsureRoom(LineHeight)
		c.Advance(LineHeight)
	}
	assert.Equal(t, 3, c.Page())
	assert.Equal(t, 20.0+20*LineHeight, c.Y())
}
