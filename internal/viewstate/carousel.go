// Package viewstate holds ephemeral UI state. None of these types are ever
// persisted alongside pages or menus.
package viewstate

// DefaultColumns is used when a carousel section has no column count.
const DefaultColumns = 3

// Carousel is the paging position of one carousel section.
type Carousel struct {
	Start   int
	Total   int
	Columns int
}

// NewCarousel starts at the first window.
func NewCarousel(total, columns int) Carousel {
	return Carousel{Total: total, Columns: columns}.clamp()
}

// VisibleCount is the column count clamped to the item count, at least 1.
func (c Carousel) VisibleCount() int {
	columns := c.Columns
	if columns <= 0 {
		columns = DefaultColumns
	}
	if c.Total < columns {
		columns = c.Total
	}
	if columns < 1 {
		return 1
	}
	return columns
}

func (c Carousel) maxStart() int {
	limit := c.Total - c.VisibleCount()
	if limit < 0 {
		return 0
	}
	return limit
}

func (c Carousel) clamp() Carousel {
	if c.Start > c.maxStart() {
		c.Start = c.maxStart()
	}
	if c.Start < 0 {
		c.Start = 0
	}
	return c
}

// Next advances one window, stopping at the last full window.
func (c Carousel) Next() Carousel {
	c.Start += c.VisibleCount()
	return c.clamp()
}

// Prev moves back one window, stopping at 0.
func (c Carousel) Prev() Carousel {
	c.Start -= c.VisibleCount()
	return c.clamp()
}

func (c Carousel) CanPrev() bool { return c.Start > 0 }

func (c Carousel) CanNext() bool { return c.Start+c.VisibleCount() < c.Total }

// Window returns the half-open index range of visible items.
func (c Carousel) Window() (int, int) {
	c = c.clamp()
	end := c.Start + c.VisibleCount()
	if end > c.Total {
		end = c.Total
	}
	return c.Start, end
}

// Resize keeps the start position valid after the item count changes.
func (c Carousel) Resize(total int) Carousel {
	c.Total = total
	return c.clamp()
}
