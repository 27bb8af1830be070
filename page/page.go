// Package page manages the back buffer pages carved out of device memory.
//
// Pages are fixed slices of the mapped device memory, sized once when a video
// mode is set. They are never allocated or freed individually; a [Pool] only
// tracks which of them are in use.
package page

import (
	"errors"
	"fmt"

	"github.com/BeatGlow/fbvideo/internal/logger"
)

// Errors
var (
	ErrGeometry = errors.New("page: invalid pool geometry")
)

// Page is one buffering target.
type Page struct {
	// Buf is the page memory.
	Buf []byte

	// Offset is the byte offset within Buf that is displayed when the page is
	// panned to, used for sub-page panning.
	Offset int

	// Used is set while the page is claimed for drawing or display.
	Used bool

	index int
	base  int
}

// Index is the position of the page in its pool, -1 for a scratch page.
func (p *Page) Index() int {
	return p.index
}

// Base is the byte offset of the page within device memory.
func (p *Page) Base() int {
	return p.base
}

// Scratch reports whether the page lives outside device memory.
func (p *Page) Scratch() bool {
	return p.index < 0
}

func (p *Page) String() string {
	if p.Scratch() {
		return fmt.Sprintf("scratch page (%d bytes)", len(p.Buf))
	}
	return fmt.Sprintf("page %d at %#x (%d bytes)", p.index, p.base, len(p.Buf))
}

// NewScratch allocates a heap page of size bytes, used to draw when no device
// page is at hand.
func NewScratch(size int) *Page {
	return &Page{
		Buf:   make([]byte, size),
		index: -1,
	}
}

// Pool hands out pages of device memory.
type Pool struct {
	pages []Page
	size  int
}

// NewPool slices count pages of size bytes out of mem.
func NewPool(mem []byte, count, size int) (*Pool, error) {
	if count < 1 || size < 1 || count*size > len(mem) {
		return nil, fmt.Errorf("%w: %d pages of %d bytes in %d bytes", ErrGeometry, count, size, len(mem))
	}
	p := &Pool{
		pages: make([]Page, count),
		size:  size,
	}
	for i := range p.pages {
		base := i * size
		p.pages[i] = Page{
			Buf:   mem[base : base+size : base+size],
			index: i,
			base:  base,
		}
	}
	return p, nil
}

// Len is the number of pages in the pool.
func (p *Pool) Len() int {
	return len(p.pages)
}

// PageSize is the size of each page in bytes.
func (p *Pool) PageSize() int {
	return p.size
}

// Page returns the page at index i.
func (p *Pool) Page(i int) *Page {
	return &p.pages[i]
}

// Used is the number of pages marked used.
func (p *Pool) Used() (n int) {
	for i := range p.pages {
		if p.pages[i].Used {
			n++
		}
	}
	return
}

// Acquire claims the first free page. When every page is in use it falls back
// to the first page, overwriting what may be on screen rather than failing.
func (p *Pool) Acquire() *Page {
	var page *Page
	for i := range p.pages {
		if !p.pages[i].Used {
			page = &p.pages[i]
			break
		}
	}
	if page == nil {
		if len(p.pages) > 1 {
			logger.Get().Warn("page: no free page, falling back to first page", "pages", len(p.pages))
		}
		page = &p.pages[0]
	}
	page.Used = true
	page.Offset = 0
	return page
}

// Release returns a page to the pool.
func (p *Pool) Release(page *Page) {
	if page != nil {
		page.Used = false
	}
}

// Reset marks every page free.
func (p *Pool) Reset() {
	for i := range p.pages {
		p.pages[i].Used = false
		p.pages[i].Offset = 0
	}
}
