package table

import "rowdb/pager"

// Every page is either a leaf or an internal node. The two share a common
// 6-byte header: node type, root flag, parent page number.
const (
	nodeTypeInternal uint8 = 0
	nodeTypeLeaf     uint8 = 1

	nodeTypeSize         = 1
	nodeTypeOffset       = 0
	isRootSize           = 1
	isRootOffset         = nodeTypeOffset + nodeTypeSize
	parentPointerSize    = 4
	parentPointerOffset  = isRootOffset + isRootSize
	commonNodeHeaderSize = nodeTypeSize + isRootSize + parentPointerSize
)

// Leaf node header layout: common header, then num_cells and next_leaf.
const (
	leafNodeNumCellsSize   = 4
	leafNodeNumCellsOffset = commonNodeHeaderSize
	leafNodeNextLeafSize   = 4
	leafNodeNextLeafOffset = leafNodeNumCellsOffset + leafNodeNumCellsSize
	leafNodeHeaderSize     = commonNodeHeaderSize + leafNodeNumCellsSize + leafNodeNextLeafSize
)

// Leaf node body layout: cell = key (4 bytes) + serialized row (RowSize bytes).
const (
	leafNodeKeySize   = 4
	leafNodeKeyOffset = 0
)

func leafNodeCellSize() uint32 { return leafNodeKeySize + RowSize }

func leafNodeSpaceForCells() uint32 { return pager.PageSize - leafNodeHeaderSize }

// LeafMaxCells is the number of (key, row) cells that fit in one leaf page.
var LeafMaxCells = leafNodeSpaceForCells() / leafNodeCellSize()

// LeafRightSplitCount and LeafLeftSplitCount are how a full leaf's
// LeafMaxCells+1 logical cells are redistributed across the two leaves
// produced by a split. Their sum is always LeafMaxCells+1.
var (
	LeafRightSplitCount = (LeafMaxCells + 1) / 2
	LeafLeftSplitCount  = (LeafMaxCells + 1) - LeafRightSplitCount
)

// Internal node header layout: common header, then num_keys and right_child.
const (
	internalNodeNumKeysSize     = 4
	internalNodeNumKeysOffset   = commonNodeHeaderSize
	internalNodeRightChildSize  = 4
	internalNodeRightChildOff   = internalNodeNumKeysOffset + internalNodeNumKeysSize
	internalNodeHeaderSize      = commonNodeHeaderSize + internalNodeNumKeysSize + internalNodeRightChildSize
	internalNodeKeySize         = 4
	internalNodeChildSize       = 4
	internalNodeCellSize        = internalNodeChildSize + internalNodeKeySize
)

// InternalMaxCells is fixed artificially low (3) so that splits are easy to
// exercise in tests, matching the reference implementation this engine is
// modeled on.
const InternalMaxCells = 3

// InvalidPageNum is the "no child here" / "empty internal node" sentinel.
// It is distinct from the leaf next_leaf sentinel (0), which means "no
// successor" and is safe only because the root always lives at page 0 and
// is never another leaf's successor.
const InvalidPageNum uint32 = 0xFFFFFFFF
