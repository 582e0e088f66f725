// Package table implements the paged B+tree that stores fixed-schema rows
// keyed by a 32-bit unsigned integer, and the file pager that backs it.
package table

import (
	"fmt"
	"strings"

	"rowdb/pager"
)

// rootPageNum never changes over the life of an open file: root splits
// rewrite page 0 in place rather than relocating the root.
const rootPageNum = 0

// Table is a thin facade pairing a Pager with the tree's root page number.
type Table struct {
	pager       *pager.Pager
	rootPageNum uint32
}

// Open opens (or creates) the database file at path. If the file is empty,
// page 0 is initialized as an empty leaf marked as root.
func Open(path string) (*Table, error) {
	p, err := pager.Open(path)
	if err != nil {
		return nil, err
	}
	t := &Table{pager: p, rootPageNum: rootPageNum}
	if p.NumPages == 0 {
		root, err := p.GetPage(rootPageNum)
		if err != nil {
			return nil, err
		}
		initLeafNode(root)
		setRoot(root, true)
	}
	return t, nil
}

// Close flushes every loaded page and closes the underlying file.
func (t *Table) Close() error {
	return t.pager.Close()
}

// Scan calls visit for every row in ascending key order, stopping early if
// visit returns an error.
func (t *Table) Scan(visit func(Row) error) error {
	c, err := t.Start()
	if err != nil {
		return err
	}
	for !c.EndOfTable {
		row, err := c.Value()
		if err != nil {
			return err
		}
		if err := visit(row); err != nil {
			return err
		}
		if err := c.Advance(); err != nil {
			return err
		}
	}
	return nil
}

// Constants reports the compile-time layout constants for the `.constants`
// meta-command.
type Constants struct {
	RowSize               uint32
	CommonNodeHeaderSize  uint32
	LeafNodeHeaderSize    uint32
	LeafNodeCellSize      uint32
	LeafNodeSpaceForCells uint32
	LeafNodeMaxCells      uint32
}

// ReportConstants returns the current layout constants.
func ReportConstants() Constants {
	return Constants{
		RowSize:               RowSize,
		CommonNodeHeaderSize:  commonNodeHeaderSize,
		LeafNodeHeaderSize:    leafNodeHeaderSize,
		LeafNodeCellSize:      leafNodeCellSize(),
		LeafNodeSpaceForCells: leafNodeSpaceForCells(),
		LeafNodeMaxCells:      LeafMaxCells,
	}
}

// PrintTree renders the tree rooted at pageNum in the documented indented
// form used by the `.btree` meta-command: three spaces per indentation
// level, leaves listing their keys, internals listing each child subtree
// interleaved with its separator key, followed by the right child.
func (t *Table) PrintTree(w *strings.Builder, pageNum uint32, level uint32) error {
	p, err := t.pager.GetPage(pageNum)
	if err != nil {
		return err
	}
	indent := strings.Repeat("   ", int(level))

	if IsLeaf(p) {
		numCells := leafNumCells(p)
		fmt.Fprintf(w, "%s- leaf (size %d)\n", indent, numCells)
		for i := uint32(0); i < numCells; i++ {
			fmt.Fprintf(w, "%s   - %d\n", indent, leafKeyAt(p, i))
		}
		return nil
	}

	numKeys := internalNumKeys(p)
	fmt.Fprintf(w, "%s- internal (size %d)\n", indent, numKeys)
	for i := uint32(0); i < numKeys; i++ {
		child, err := internalChild(p, i)
		if err != nil {
			return err
		}
		if err := t.PrintTree(w, child, level+1); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s   - key %d\n", indent, internalKeyAt(p, i))
	}
	if numKeys > 0 {
		rightChild, err := internalChild(p, numKeys)
		if err != nil {
			return err
		}
		if err := t.PrintTree(w, rightChild, level+1); err != nil {
			return err
		}
	}
	return nil
}

// RootPageNum returns the page number of the tree's root, for callers
// (such as `.btree`) that need to start a traversal from the top.
func (t *Table) RootPageNum() uint32 { return t.rootPageNum }
