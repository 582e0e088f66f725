package table

import (
	"encoding/binary"
	"fmt"
	"sort"

	"rowdb/pager"
)

// Node is a pure byte-offset view over a page: every accessor reads or
// writes directly through the page's 4096-byte buffer. There is no
// separate in-memory cell cache to keep in sync with it.
//
// Common header fields (node type, root flag, parent pointer) live at a
// fixed offset shared by both leaf and internal pages.

func nodeType(p *pager.Page) uint8 { return p.Data[nodeTypeOffset] }

func setNodeType(p *pager.Page, t uint8) {
	p.Data[nodeTypeOffset] = t
	p.Dirty = true
}

// IsLeaf reports whether p holds a leaf node.
func IsLeaf(p *pager.Page) bool { return nodeType(p) == nodeTypeLeaf }

func isRoot(p *pager.Page) bool { return p.Data[isRootOffset] != 0 }

func setRoot(p *pager.Page, root bool) {
	if root {
		p.Data[isRootOffset] = 1
	} else {
		p.Data[isRootOffset] = 0
	}
	p.Dirty = true
}

func parentPage(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[parentPointerOffset : parentPointerOffset+parentPointerSize])
}

func setParentPage(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p.Data[parentPointerOffset:parentPointerOffset+parentPointerSize], n)
	p.Dirty = true
}

// --- leaf node body ---

func leafNumCells(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[leafNodeNumCellsOffset : leafNodeNumCellsOffset+leafNodeNumCellsSize])
}

func setLeafNumCells(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p.Data[leafNodeNumCellsOffset:leafNodeNumCellsOffset+leafNodeNumCellsSize], n)
	p.Dirty = true
}

func leafNextLeaf(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[leafNodeNextLeafOffset : leafNodeNextLeafOffset+leafNodeNextLeafSize])
}

func setLeafNextLeaf(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p.Data[leafNodeNextLeafOffset:leafNodeNextLeafOffset+leafNodeNextLeafSize], n)
	p.Dirty = true
}

func leafCellOffset(cellNum uint32) uint32 {
	return leafNodeHeaderSize + cellNum*leafNodeCellSize()
}

func leafKeyAt(p *pager.Page, cellNum uint32) uint32 {
	off := leafCellOffset(cellNum) + leafNodeKeyOffset
	return binary.LittleEndian.Uint32(p.Data[off : off+leafNodeKeySize])
}

func setLeafKeyAt(p *pager.Page, cellNum uint32, key uint32) {
	off := leafCellOffset(cellNum) + leafNodeKeyOffset
	binary.LittleEndian.PutUint32(p.Data[off:off+leafNodeKeySize], key)
	p.Dirty = true
}

func leafValueSlice(p *pager.Page, cellNum uint32) []byte {
	off := leafCellOffset(cellNum) + leafNodeKeySize
	return p.Data[off : off+RowSize]
}

func leafCellSlice(p *pager.Page, cellNum uint32) []byte {
	off := leafCellOffset(cellNum)
	return p.Data[off : off+leafNodeCellSize()]
}

func initLeafNode(p *pager.Page) {
	setNodeType(p, nodeTypeLeaf)
	setRoot(p, false)
	setLeafNumCells(p, 0)
	setLeafNextLeaf(p, 0)
}

// --- internal node body ---

func internalNumKeys(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[internalNodeNumKeysOffset : internalNodeNumKeysOffset+internalNodeNumKeysSize])
}

func setInternalNumKeys(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p.Data[internalNodeNumKeysOffset:internalNodeNumKeysOffset+internalNodeNumKeysSize], n)
	p.Dirty = true
}

func internalRightChild(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[internalNodeRightChildOff : internalNodeRightChildOff+internalNodeRightChildSize])
}

func setInternalRightChild(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p.Data[internalNodeRightChildOff:internalNodeRightChildOff+internalNodeRightChildSize], n)
	p.Dirty = true
}

func internalCellOffset(cellNum uint32) uint32 {
	return internalNodeHeaderSize + cellNum*internalNodeCellSize
}

func internalChildRaw(p *pager.Page, cellNum uint32) uint32 {
	off := internalCellOffset(cellNum)
	return binary.LittleEndian.Uint32(p.Data[off : off+internalNodeChildSize])
}

func setInternalChildRaw(p *pager.Page, cellNum uint32, child uint32) {
	off := internalCellOffset(cellNum)
	binary.LittleEndian.PutUint32(p.Data[off:off+internalNodeChildSize], child)
	p.Dirty = true
}

func internalKeyAt(p *pager.Page, cellNum uint32) uint32 {
	off := internalCellOffset(cellNum) + internalNodeChildSize
	return binary.LittleEndian.Uint32(p.Data[off : off+internalNodeKeySize])
}

func setInternalKeyAt(p *pager.Page, cellNum uint32, key uint32) {
	off := internalCellOffset(cellNum) + internalNodeChildSize
	binary.LittleEndian.PutUint32(p.Data[off:off+internalNodeKeySize], key)
	p.Dirty = true
}

func initInternalNode(p *pager.Page) {
	setNodeType(p, nodeTypeInternal)
	setRoot(p, false)
	setInternalNumKeys(p, 0)
	setInternalRightChild(p, InvalidPageNum)
}

// internalChild returns the page number of child i (0-indexed). i ==
// NumKeys means "the right child"; i > NumKeys or an InvalidPageNum slot
// is a fatal out-of-range access.
func internalChild(p *pager.Page, i uint32) (uint32, error) {
	numKeys := internalNumKeys(p)
	switch {
	case i > numKeys:
		return 0, fmt.Errorf("table: tried to access child %d > num keys %d", i, numKeys)
	case i == numKeys:
		rc := internalRightChild(p)
		if rc == InvalidPageNum {
			return 0, fmt.Errorf("table: tried to access right child, but was invalid page")
		}
		return rc, nil
	default:
		child := internalChildRaw(p, i)
		if child == InvalidPageNum {
			return 0, fmt.Errorf("table: tried to access child %d, but was invalid page", i)
		}
		return child, nil
	}
}

// internalFindChild returns the smallest index i such that key[i] >= key,
// or numKeys if no such key exists (meaning: descend into the right child).
func internalFindChild(p *pager.Page, key uint32) uint32 {
	numKeys := internalNumKeys(p)
	idx := sort.Search(int(numKeys), func(i int) bool {
		return internalKeyAt(p, uint32(i)) >= key
	})
	return uint32(idx)
}

// updateInternalKey replaces the key entry that used to equal oldKey with
// newKey — used after a child's max key changes as a result of a split.
func updateInternalKey(p *pager.Page, oldKey, newKey uint32) {
	idx := internalFindChild(p, oldKey)
	setInternalKeyAt(p, idx, newKey)
}
