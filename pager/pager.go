// Package pager owns the database file and the fixed-size array of page
// slots backing it. It is a write-back cache with no eviction policy: every
// page loaded or allocated during a session stays resident until Close.
package pager

import (
	"fmt"
	"io"
	"os"
)

const (
	// PageSize is the fixed size, in bytes, of every page in the file.
	PageSize = 4096

	// MaxPages bounds how many page slots a single Pager will hold. It is
	// not a page number; requesting page MaxPages or higher is fatal.
	MaxPages = 100
)

// FatalError marks a condition the pager cannot recover from: a corrupt
// file, an I/O failure, or an out-of-range page access. Callers at the
// REPL layer print the message and terminate the process.
type FatalError struct {
	msg string
}

func (e *FatalError) Error() string { return e.msg }

func fatalf(format string, args ...any) error {
	return &FatalError{msg: fmt.Sprintf(format, args...)}
}

// Page is one 4096-byte slot, lazily populated from disk on first access.
type Page struct {
	Data  [PageSize]byte
	Dirty bool
}

// Pager is the page cache and file handle shared by every B+tree operation
// on a table. It lazily loads pages on first access and buffers all writes
// in memory until Close.
type Pager struct {
	file     *os.File
	pages    [MaxPages]*Page
	NumPages uint32 // pages known to exist, including ones not yet loaded
}

// Open opens (or creates) the database file at path and computes the
// current page count from its length. A length that is not an exact
// multiple of PageSize is a corrupt file and is fatal.
func Open(path string) (*Pager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("pager: open %s: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pager: stat %s: %w", path, err)
	}
	size := fi.Size()
	if size%PageSize != 0 {
		f.Close()
		return nil, fatalf("db file %s is not a whole number of pages; corrupt file", path)
	}
	return &Pager{
		file:     f,
		NumPages: uint32(size / PageSize),
	}, nil
}

// GetPage returns the buffer for page n, loading it from disk on first
// access. If n is at or beyond the current page count, NumPages grows to
// n+1 and the new slot starts zeroed; the caller is responsible for
// initializing it as a leaf or internal node.
func (p *Pager) GetPage(n uint32) (*Page, error) {
	if n >= MaxPages {
		return nil, fatalf("tried to fetch page number out of bounds: %d >= %d", n, MaxPages)
	}
	if p.pages[n] == nil {
		pg := &Page{}
		if n < p.NumPages {
			if _, err := p.file.Seek(int64(n)*PageSize, io.SeekStart); err != nil {
				return nil, fmt.Errorf("pager: seek page %d: %w", n, err)
			}
			if _, err := io.ReadFull(p.file, pg.Data[:]); err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
				return nil, fmt.Errorf("pager: read page %d: %w", n, err)
			}
		}
		p.pages[n] = pg
		if n >= p.NumPages {
			p.NumPages = n + 1
		}
	}
	return p.pages[n], nil
}

// GetUnusedPageNum returns the next never-before-used page number and
// reserves it by advancing NumPages. There is no free list: deleted pages
// do not exist in this design, so nothing is ever reclaimed.
func (p *Pager) GetUnusedPageNum() uint32 {
	n := p.NumPages
	p.NumPages = n + 1
	return n
}

// Flush writes the full contents of page n back to disk. Flushing a slot
// that was never loaded is fatal — it would silently write zeroed garbage
// over whatever is already on disk at that offset.
func (p *Pager) Flush(n uint32) error {
	pg := p.pages[n]
	if pg == nil {
		return fatalf("tried to flush null page %d", n)
	}
	if _, err := p.file.Seek(int64(n)*PageSize, io.SeekStart); err != nil {
		return fmt.Errorf("pager: seek page %d: %w", n, err)
	}
	if _, err := p.file.Write(pg.Data[:]); err != nil {
		return fmt.Errorf("pager: write page %d: %w", n, err)
	}
	return nil
}

// Close flushes every loaded page below NumPages and closes the file. Each
// page buffer is released exactly once.
func (p *Pager) Close() error {
	for n := uint32(0); n < p.NumPages; n++ {
		if p.pages[n] == nil {
			continue
		}
		if err := p.Flush(n); err != nil {
			return err
		}
		p.pages[n] = nil
	}
	if err := p.file.Close(); err != nil {
		return fatalf("error closing the db file: %v", err)
	}
	return nil
}
