package table

import (
	"fmt"
	"sort"

	"rowdb/pager"
)

// ErrDuplicateKey is returned by Insert when the row's id already exists.
var ErrDuplicateKey = fmt.Errorf("duplicate key")

// getNodeMaxKey returns the maximum key stored in the subtree rooted at
// pageNum: the last cell's key for a leaf (or 0 if empty), or the
// recursively-computed max of the right child for an internal node.
func (t *Table) getNodeMaxKey(pageNum uint32) (uint32, error) {
	p, err := t.pager.GetPage(pageNum)
	if err != nil {
		return 0, err
	}
	if IsLeaf(p) {
		n := leafNumCells(p)
		if n == 0 {
			return 0, nil
		}
		return leafKeyAt(p, n-1), nil
	}
	return t.getNodeMaxKey(internalRightChild(p))
}

// leafFindCell binary-searches a leaf for the first cell with key >= key,
// or numCells if every key is smaller.
func leafFindCell(p *pager.Page, key uint32) uint32 {
	numCells := leafNumCells(p)
	idx := sort.Search(int(numCells), func(i int) bool {
		return leafKeyAt(p, uint32(i)) >= key
	})
	return uint32(idx)
}

// Find descends from the root to the leaf that should contain key, and
// returns a cursor at the first cell with key[i] >= key (one past the end
// if every key in the leaf is smaller). It is used both as a point lookup
// and as the insertion-point locator; EndOfTable is never set here.
func (t *Table) Find(key uint32) (*Cursor, error) {
	pageNum := t.rootPageNum
	for {
		p, err := t.pager.GetPage(pageNum)
		if err != nil {
			return nil, err
		}
		if IsLeaf(p) {
			return &Cursor{t: t, PageNum: pageNum, CellNum: leafFindCell(p, key)}, nil
		}
		idx := internalFindChild(p, key)
		child, err := internalChild(p, idx)
		if err != nil {
			return nil, err
		}
		pageNum = child
	}
}

// Start returns a cursor positioned at the first row in ascending key
// order, with EndOfTable set if the table is empty.
func (t *Table) Start() (*Cursor, error) {
	c, err := t.Find(0)
	if err != nil {
		return nil, err
	}
	p, err := t.pager.GetPage(c.PageNum)
	if err != nil {
		return nil, err
	}
	c.EndOfTable = leafNumCells(p) == 0
	return c, nil
}

// Insert adds row under key row.ID, splitting nodes and propagating splits
// up to the root as needed. It returns ErrDuplicateKey if the id already
// exists; the table is left unchanged in that case.
func (t *Table) Insert(row Row) error {
	cursor, err := t.Find(row.ID)
	if err != nil {
		return err
	}
	p, err := t.pager.GetPage(cursor.PageNum)
	if err != nil {
		return err
	}
	if cursor.CellNum < leafNumCells(p) && leafKeyAt(p, cursor.CellNum) == row.ID {
		return ErrDuplicateKey
	}
	return t.leafNodeInsert(cursor, row.ID, row)
}

// leafNodeInsert inserts key/row into the leaf cursor points into,
// shifting later cells right, or splits the leaf if it's already full.
func (t *Table) leafNodeInsert(cursor *Cursor, key uint32, row Row) error {
	p, err := t.pager.GetPage(cursor.PageNum)
	if err != nil {
		return err
	}
	numCells := leafNumCells(p)

	if numCells >= LeafMaxCells {
		return t.leafNodeSplitAndInsert(cursor, key, row)
	}

	for i := numCells; i > cursor.CellNum; i-- {
		copy(leafCellSlice(p, i), leafCellSlice(p, i-1))
	}
	setLeafNumCells(p, numCells+1)
	setLeafKeyAt(p, cursor.CellNum, key)
	return SerializeRow(row, leafValueSlice(p, cursor.CellNum))
}

// leafNodeSplitAndInsert splits a full leaf in two, redistributing its
// LeafMaxCells existing cells plus the new one across both halves
// (LeafLeftSplitCount in the old node, LeafRightSplitCount in the new
// one), then either creates a new root (if old was the root) or updates
// the parent's key and inserts the new leaf into it.
//
// The old node's cells are snapshotted into oldCells before any cell is
// overwritten, so the destination-index math below (walking i from
// LeafMaxCells down to 0) can freely write into old's own cell slots
// without clobbering a source cell it still needs to read.
func (t *Table) leafNodeSplitAndInsert(cursor *Cursor, key uint32, row Row) error {
	old, err := t.pager.GetPage(cursor.PageNum)
	if err != nil {
		return err
	}
	oldMax, err := t.getNodeMaxKey(cursor.PageNum)
	if err != nil {
		return err
	}

	newPageNum := t.pager.GetUnusedPageNum()
	newPage, err := t.pager.GetPage(newPageNum)
	if err != nil {
		return err
	}
	initLeafNode(newPage)
	setParentPage(newPage, parentPage(old))
	setLeafNextLeaf(newPage, leafNextLeaf(old))
	setLeafNextLeaf(old, newPageNum)

	// Snapshot the old node's cells before overwriting them in place.
	oldCells := make([][]byte, LeafMaxCells)
	for i := uint32(0); i < LeafMaxCells; i++ {
		buf := make([]byte, leafNodeCellSize())
		copy(buf, leafCellSlice(old, i))
		oldCells[i] = buf
	}

	for i := int32(LeafMaxCells); i >= 0; i-- {
		var dest *pager.Page
		if uint32(i) >= LeafLeftSplitCount {
			dest = newPage
		} else {
			dest = old
		}
		indexWithinNode := uint32(i) % LeafLeftSplitCount

		switch {
		case uint32(i) == cursor.CellNum:
			setLeafKeyAt(dest, indexWithinNode, key)
			if err := SerializeRow(row, leafValueSlice(dest, indexWithinNode)); err != nil {
				return err
			}
		case uint32(i) > cursor.CellNum:
			copy(leafCellSlice(dest, indexWithinNode), oldCells[i-1])
		default:
			copy(leafCellSlice(dest, indexWithinNode), oldCells[i])
		}
	}

	setLeafNumCells(old, LeafLeftSplitCount)
	setLeafNumCells(newPage, LeafRightSplitCount)

	if isRoot(old) {
		return t.createNewRoot(newPageNum)
	}

	parentPageNum := parentPage(old)
	newMax, err := t.getNodeMaxKey(cursor.PageNum)
	if err != nil {
		return err
	}
	parent, err := t.pager.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	updateInternalKey(parent, oldMax, newMax)
	return t.internalNodeInsert(parentPageNum, newPageNum)
}

// createNewRoot handles a split at the root: the current root's bytes are
// copied verbatim into a freshly allocated left child (demoted, with its
// own children re-parented if it was internal), and the root page is
// re-initialized in place as a one-key internal node pointing at the new
// left child and the given right child.
func (t *Table) createNewRoot(rightChildPageNum uint32) error {
	root, err := t.pager.GetPage(t.rootPageNum)
	if err != nil {
		return err
	}
	rightChild, err := t.pager.GetPage(rightChildPageNum)
	if err != nil {
		return err
	}
	leftChildPageNum := t.pager.GetUnusedPageNum()
	leftChild, err := t.pager.GetPage(leftChildPageNum)
	if err != nil {
		return err
	}

	wasInternal := !IsLeaf(root)
	if wasInternal {
		initInternalNode(rightChild)
		initInternalNode(leftChild)
	}

	leftChild.Data = root.Data
	leftChild.Dirty = true
	setRoot(leftChild, false)

	if !IsLeaf(leftChild) {
		numKeys := internalNumKeys(leftChild)
		for i := uint32(0); i <= numKeys; i++ {
			childNum, err := internalChild(leftChild, i)
			if err != nil {
				return err
			}
			child, err := t.pager.GetPage(childNum)
			if err != nil {
				return err
			}
			setParentPage(child, leftChildPageNum)
		}
	}

	initInternalNode(root)
	setRoot(root, true)
	setInternalNumKeys(root, 1)
	setInternalChildRaw(root, 0, leftChildPageNum)
	leftMax, err := t.getNodeMaxKey(leftChildPageNum)
	if err != nil {
		return err
	}
	setInternalKeyAt(root, 0, leftMax)
	setInternalRightChild(root, rightChildPageNum)
	setParentPage(leftChild, t.rootPageNum)
	setParentPage(rightChild, t.rootPageNum)
	return nil
}

// internalNodeInsert adds a child/key cell to parent for child, splitting
// parent first if it's already at InternalMaxCells.
func (t *Table) internalNodeInsert(parentPageNum, childPageNum uint32) error {
	childMax, err := t.getNodeMaxKey(childPageNum)
	if err != nil {
		return err
	}
	parent, err := t.pager.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	index := internalFindChild(parent, childMax)
	numKeys := internalNumKeys(parent)

	if numKeys >= InternalMaxCells {
		return t.internalNodeSplitAndInsert(parentPageNum, childPageNum)
	}

	rightChildPageNum := internalRightChild(parent)
	child, err := t.pager.GetPage(childPageNum)
	if err != nil {
		return err
	}

	if rightChildPageNum == InvalidPageNum {
		setInternalRightChild(parent, childPageNum)
		setParentPage(child, parentPageNum)
		return nil
	}

	rightChild, err := t.pager.GetPage(rightChildPageNum)
	if err != nil {
		return err
	}

	// Growing num_keys before splicing avoids materializing a cell with an
	// uninitialized value at index numKeys if we were to split instead.
	setInternalNumKeys(parent, numKeys+1)

	rightChildMax, err := t.getNodeMaxKey(rightChildPageNum)
	if err != nil {
		return err
	}

	if childMax > rightChildMax {
		setInternalChildRaw(parent, numKeys, rightChildPageNum)
		setInternalKeyAt(parent, numKeys, rightChildMax)
		setInternalRightChild(parent, childPageNum)
		setParentPage(child, parentPageNum)
		setParentPage(rightChild, parentPageNum)
		return nil
	}

	for i := numKeys; i > index; i-- {
		dstOff := internalCellOffset(i)
		srcOff := internalCellOffset(i - 1)
		copy(parent.Data[dstOff:dstOff+internalNodeCellSize], parent.Data[srcOff:srcOff+internalNodeCellSize])
	}
	parent.Dirty = true
	setInternalChildRaw(parent, index, childPageNum)
	setInternalKeyAt(parent, index, childMax)
	setParentPage(child, parentPageNum)
	return nil
}

// internalNodeSplitAndInsert splits a full internal node (already at
// InternalMaxCells keys) in two and inserts child into whichever half now
// covers its key range. If parent is the root, the split also creates a
// new root above both halves.
func (t *Table) internalNodeSplitAndInsert(parentPageNum, childPageNum uint32) error {
	oldPageNum := parentPageNum
	old, err := t.pager.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	oldMax, err := t.getNodeMaxKey(oldPageNum)
	if err != nil {
		return err
	}
	childMax, err := t.getNodeMaxKey(childPageNum)
	if err != nil {
		return err
	}
	newPageNum := t.pager.GetUnusedPageNum()
	splittingRoot := isRoot(old)

	var grandparentPageNum uint32
	if splittingRoot {
		if err := t.createNewRoot(newPageNum); err != nil {
			return err
		}
		root, err := t.pager.GetPage(t.rootPageNum)
		if err != nil {
			return err
		}
		oldPageNum, err = internalChild(root, 0)
		if err != nil {
			return err
		}
		old, err = t.pager.GetPage(oldPageNum)
		if err != nil {
			return err
		}
	} else {
		grandparentPageNum = parentPage(old)
		newPage, err := t.pager.GetPage(newPageNum)
		if err != nil {
			return err
		}
		initInternalNode(newPage)
	}

	// Move the old right child into the new node first, then every key
	// above the midpoint, then promote the new midpoint to be old's right
	// child. Re-fetch `old` via GetPage between mutations since these
	// recursive inserts may themselves trigger further splits.
	curPageNum := internalRightChild(old)
	if err := t.internalNodeInsert(newPageNum, curPageNum); err != nil {
		return err
	}
	cur, err := t.pager.GetPage(curPageNum)
	if err != nil {
		return err
	}
	setParentPage(cur, newPageNum)
	old, err = t.pager.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	setInternalRightChild(old, InvalidPageNum)

	for i := int32(InternalMaxCells - 1); i > InternalMaxCells/2; i-- {
		old, err = t.pager.GetPage(oldPageNum)
		if err != nil {
			return err
		}
		curPageNum, err = internalChild(old, uint32(i))
		if err != nil {
			return err
		}
		if err := t.internalNodeInsert(newPageNum, curPageNum); err != nil {
			return err
		}
		cur, err = t.pager.GetPage(curPageNum)
		if err != nil {
			return err
		}
		setParentPage(cur, newPageNum)

		old, err = t.pager.GetPage(oldPageNum)
		if err != nil {
			return err
		}
		setInternalNumKeys(old, internalNumKeys(old)-1)
	}

	old, err = t.pager.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	lastChild, err := internalChild(old, internalNumKeys(old)-1)
	if err != nil {
		return err
	}
	setInternalRightChild(old, lastChild)
	setInternalNumKeys(old, internalNumKeys(old)-1)

	maxAfterSplit, err := t.getNodeMaxKey(oldPageNum)
	if err != nil {
		return err
	}
	destPageNum := newPageNum
	if childMax < maxAfterSplit {
		destPageNum = oldPageNum
	}
	if err := t.internalNodeInsert(destPageNum, childPageNum); err != nil {
		return err
	}
	child, err := t.pager.GetPage(childPageNum)
	if err != nil {
		return err
	}
	setParentPage(child, destPageNum)

	finalParentPageNum := t.rootPageNum
	if !splittingRoot {
		finalParentPageNum = grandparentPageNum
	}
	parent, err := t.pager.GetPage(finalParentPageNum)
	if err != nil {
		return err
	}
	newOldMax, err := t.getNodeMaxKey(oldPageNum)
	if err != nil {
		return err
	}
	updateInternalKey(parent, oldMax, newOldMax)

	if !splittingRoot {
		if err := t.internalNodeInsert(grandparentPageNum, newPageNum); err != nil {
			return err
		}
		newPage, err := t.pager.GetPage(newPageNum)
		if err != nil {
			return err
		}
		setParentPage(newPage, grandparentPageNum)
	}
	return nil
}
