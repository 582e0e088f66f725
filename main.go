// Command rowdb is a line-oriented REPL over a single-file, single-user
// B+tree table. See SPEC_FULL.md for the grammar and response format.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"rowdb/table"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Must supply a database filename.")
		os.Exit(0)
	}

	t, err := table.Open(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		printPrompt()
		input := readInput(reader)

		if len(input) > 0 && input[0] == '.' {
			switch doMetaCommand(input, t) {
			case MetaCommandSuccess:
				continue
			case MetaCommandUnrecognizedCommand:
				fmt.Printf("Unrecognized command '%s'.\n", input)
				continue
			}
		}

		stmt, result := prepareStatement(input)
		switch result {
		case PrepareSuccess:
		case PrepareNegativeID:
			fmt.Println("ID must be positive.")
			continue
		case PrepareStringTooLong:
			fmt.Println("String is too long.")
			continue
		case PrepareSyntaxError:
			fmt.Println("Syntax error. Could not parse statement.")
			continue
		case PrepareUnrecognizedStatement:
			fmt.Printf("Unrecognized keyword at start of '%s'.\n", input)
			continue
		}

		execResult, err := executeStatement(stmt, t)
		if err != nil {
			log.Fatal(err)
		}
		switch execResult {
		case ExecuteSuccess:
			fmt.Println("Executed.")
		case ExecuteDuplicateKey:
			fmt.Println("Error: Duplicate key.")
		case ExecuteTableFull:
			fmt.Println("Error: Table is full.")
		}
	}
}
