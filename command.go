package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"rowdb/table"
)

// MetaCommandResult reports the outcome of a leading-dot command.
type MetaCommandResult int

const (
	MetaCommandSuccess MetaCommandResult = iota
	MetaCommandUnrecognizedCommand
)

// doMetaCommand handles a line beginning with '.'. `.exit` flushes and
// closes the database, then terminates the process with code 0; `.btree`
// and `.constants` are diagnostic dumps.
func doMetaCommand(input string, t *table.Table) MetaCommandResult {
	switch input {
	case ".exit":
		if err := t.Close(); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
		return MetaCommandSuccess
	case ".btree":
		var b strings.Builder
		if err := t.PrintTree(&b, t.RootPageNum(), 0); err != nil {
			log.Fatal(err)
		}
		fmt.Print(b.String())
		return MetaCommandSuccess
	case ".constants":
		printConstants(t)
		return MetaCommandSuccess
	default:
		return MetaCommandUnrecognizedCommand
	}
}

func printConstants(t *table.Table) {
	c := table.ReportConstants()
	fmt.Println("Constants:")
	fmt.Printf("ROW_SIZE: %d\n", c.RowSize)
	fmt.Printf("COMMON_NODE_HEADER_SIZE: %d\n", c.CommonNodeHeaderSize)
	fmt.Printf("LEAF_NODE_HEADER_SIZE: %d\n", c.LeafNodeHeaderSize)
	fmt.Printf("LEAF_NODE_CELL_SIZE: %d\n", c.LeafNodeCellSize)
	fmt.Printf("LEAF_NODE_SPACE_FOR_CELLS: %d\n", c.LeafNodeSpaceForCells)
	fmt.Printf("LEAF_NODE_MAX_CELLS: %d\n", c.LeafNodeMaxCells)
}
