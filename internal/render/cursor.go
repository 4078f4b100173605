package render

// Cursor owns the vertical write position for one render and decides when
// a new page starts. It is created per call and never shared.
type Cursor struct {
	y      float64
	top    float64
	bottom float64
	pages  int
	fresh  bool // nothing written since the last page break

	onNewPage func(page int)
}

// NewCursor starts on page 1 at start. Later pages start at top; content may
// not extend past bottom. onNewPage, if set, runs for every page including
// the first.
func NewCursor(start, top, bottom float64, onNewPage func(page int)) *Cursor {
	c := &Cursor{
		y:         start,
		top:       top,
		bottom:    bottom,
		pages:     1,
		onNewPage: onNewPage,
	}
	if onNewPage != nil {
		onNewPage(1)
	}
	return c
}

// Y is the current vertical offset on the current page
func (c *Cursor) Y() float64 {
	return c.y
}

// Page is the 1-based number of the current page
func (c *Cursor) Page() int {
	return c.pages
}

// Bottom is the lowest offset content may reach
func (c *Cursor) Bottom() float64 {
	return c.bottom
}

// Advance moves the cursor down by the given amount
func (c *Cursor) Advance(by float64) {
	c.y += by
	if by > 0 {
		c.fresh = false
	}
}

// EnsureRoom starts a new page when y+needed would cross the bottom
// threshold and reports whether it did. A freshly started page is never
// broken again, so blocks taller than a page still make progress.
func (c *Cursor) EnsureRoom(needed float64) bool {
	if c.y+needed <= c.bottom || c.fresh {
		return false
	}
	c.NewPage()
	return true
}

// NewPage unconditionally moves to the top of a new page
func (c *Cursor) NewPage() {
	c.pages++
	c.y = c.top
	c.fresh = true
	if c.onNewPage != nil {
		c.onNewPage(c.pages)
	}
}
