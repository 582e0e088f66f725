package main

import (
	"fmt"
	"strconv"
	"strings"

	"rowdb/table"
)

// StatementType distinguishes the two statements this REPL understands.
type StatementType int

const (
	StatementInsert StatementType = iota
	StatementSelect
)

// Statement is a parsed, ready-to-execute command.
type Statement struct {
	Type        StatementType
	RowToInsert table.Row
}

// PrepareResult reports why parsing a statement failed, if it did.
type PrepareResult int

const (
	PrepareSuccess PrepareResult = iota
	PrepareNegativeID
	PrepareStringTooLong
	PrepareSyntaxError
	PrepareUnrecognizedStatement
)

// prepareStatement parses one input line into a Statement. It mirrors the
// whitespace-split grammar `insert <id> <username> <email>` / `select`.
func prepareStatement(input string) (Statement, PrepareResult) {
	if strings.HasPrefix(input, "insert") {
		return prepareInsert(input)
	}
	if input == "select" {
		return Statement{Type: StatementSelect}, PrepareSuccess
	}
	return Statement{}, PrepareUnrecognizedStatement
}

func prepareInsert(input string) (Statement, PrepareResult) {
	fields := strings.Fields(input)
	if len(fields) != 4 {
		return Statement{}, PrepareSyntaxError
	}
	idStr, username, email := fields[1], fields[2], fields[3]

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return Statement{}, PrepareSyntaxError
	}
	if id < 0 {
		return Statement{}, PrepareNegativeID
	}
	if len(username) > table.MaxUsernameLen || len(email) > table.MaxEmailLen {
		return Statement{}, PrepareStringTooLong
	}

	stmt := Statement{
		Type: StatementInsert,
		RowToInsert: table.Row{
			ID:       uint32(id),
			Username: username,
			Email:    email,
		},
	}
	return stmt, PrepareSuccess
}

// ExecuteResult reports the outcome of running a parsed Statement.
type ExecuteResult int

const (
	ExecuteSuccess ExecuteResult = iota
	ExecuteDuplicateKey
	ExecuteTableFull
)

// executeStatement runs stmt against t.
func executeStatement(stmt Statement, t *table.Table) (ExecuteResult, error) {
	switch stmt.Type {
	case StatementInsert:
		return executeInsert(stmt, t)
	case StatementSelect:
		return executeSelect(stmt, t)
	default:
		return ExecuteSuccess, fmt.Errorf("unknown statement type %d", stmt.Type)
	}
}

func executeInsert(stmt Statement, t *table.Table) (ExecuteResult, error) {
	if err := t.Insert(stmt.RowToInsert); err != nil {
		if err == table.ErrDuplicateKey {
			return ExecuteDuplicateKey, nil
		}
		return ExecuteSuccess, err
	}
	return ExecuteSuccess, nil
}

func executeSelect(stmt Statement, t *table.Table) (ExecuteResult, error) {
	err := t.Scan(func(row table.Row) error {
		fmt.Printf("(%d, %s, %s)\n", row.ID, row.Username, row.Email)
		return nil
	})
	if err != nil {
		return ExecuteSuccess, err
	}
	return ExecuteSuccess, nil
}
