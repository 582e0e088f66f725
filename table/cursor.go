package table

// Cursor is a (page, cell) position used for point lookup, insertion, and
// linear scans along the leaf chain. It is short-lived and non-owning: any
// insert that splits the leaf a cursor points into invalidates it. Callers
// must not retain a cursor across an Insert.
type Cursor struct {
	t          *Table
	PageNum    uint32
	CellNum    uint32
	EndOfTable bool
}

// Value returns the row at the cursor's current position.
func (c *Cursor) Value() (Row, error) {
	p, err := c.t.pager.GetPage(c.PageNum)
	if err != nil {
		return Row{}, err
	}
	return DeserializeRow(leafValueSlice(p, c.CellNum))
}

// Advance moves the cursor to the next cell in ascending key order,
// following next_leaf across leaf boundaries.
func (c *Cursor) Advance() error {
	p, err := c.t.pager.GetPage(c.PageNum)
	if err != nil {
		return err
	}
	c.CellNum++
	if c.CellNum >= leafNumCells(p) {
		next := leafNextLeaf(p)
		if next == 0 {
			c.EndOfTable = true
		} else {
			c.PageNum = next
			c.CellNum = 0
		}
	}
	return nil
}
