package main

import (
	"bufio"
	"fmt"
	"log"
	"strings"
)

func printPrompt() {
	fmt.Print("db > ")
}

// readInput reads one line from reader. EOF is treated as a fatal read
// error rather than a clean shutdown — a quirk of the REPL this module is
// modeled on that's kept deliberately; see DESIGN.md.
func readInput(reader *bufio.Reader) string {
	line, err := reader.ReadString('\n')
	if err != nil {
		log.Fatal("error reading input, please try again")
	}
	return strings.TrimRight(line, "\r\n")
}
