package main

import (
	"strings"
	"testing"

	"rowdb/table"
)

func TestPrepareInsertSuccess(t *testing.T) {
	stmt, result := prepareStatement("insert 1 user1 person1@example.com")
	if result != PrepareSuccess {
		t.Fatalf("result = %v, want PrepareSuccess", result)
	}
	want := table.Row{ID: 1, Username: "user1", Email: "person1@example.com"}
	if stmt.Type != StatementInsert || stmt.RowToInsert != want {
		t.Errorf("stmt = %+v, want Type=StatementInsert Row=%+v", stmt, want)
	}
}

func TestPrepareSelect(t *testing.T) {
	stmt, result := prepareStatement("select")
	if result != PrepareSuccess {
		t.Fatalf("result = %v, want PrepareSuccess", result)
	}
	if stmt.Type != StatementSelect {
		t.Errorf("stmt.Type = %v, want StatementSelect", stmt.Type)
	}
}

// S4: a negative id is rejected before it reaches the table.
func TestPrepareInsertNegativeID(t *testing.T) {
	_, result := prepareStatement("insert -1 cstack foo@bar.com")
	if result != PrepareNegativeID {
		t.Errorf("result = %v, want PrepareNegativeID", result)
	}
}

// S5: a username or email longer than its column width is rejected before
// it reaches the table.
func TestPrepareInsertStringTooLong(t *testing.T) {
	longUsername := strings.Repeat("a", table.MaxUsernameLen+1)
	_, result := prepareStatement("insert 1 " + longUsername + " foo@bar.com")
	if result != PrepareStringTooLong {
		t.Errorf("long username: result = %v, want PrepareStringTooLong", result)
	}

	longEmail := strings.Repeat("a", table.MaxEmailLen+1)
	_, result = prepareStatement("insert 1 user " + longEmail)
	if result != PrepareStringTooLong {
		t.Errorf("long email: result = %v, want PrepareStringTooLong", result)
	}
}

func TestPrepareInsertAtMaxLengthSucceeds(t *testing.T) {
	username := strings.Repeat("a", table.MaxUsernameLen)
	email := strings.Repeat("b", table.MaxEmailLen)
	_, result := prepareStatement("insert 1 " + username + " " + email)
	if result != PrepareSuccess {
		t.Errorf("result = %v, want PrepareSuccess", result)
	}
}

func TestPrepareInsertSyntaxError(t *testing.T) {
	cases := []string{
		"insert 1 user1",
		"insert foo user1 person1@example.com",
		"insert",
	}
	for _, input := range cases {
		if _, result := prepareStatement(input); result != PrepareSyntaxError {
			t.Errorf("prepareStatement(%q) = %v, want PrepareSyntaxError", input, result)
		}
	}
}

func TestPrepareUnrecognizedStatement(t *testing.T) {
	_, result := prepareStatement("destroy everything")
	if result != PrepareUnrecognizedStatement {
		t.Errorf("result = %v, want PrepareUnrecognizedStatement", result)
	}
}

func TestExecuteInsertAndSelect(t *testing.T) {
	path := t.TempDir() + "/test.db"
	tbl, err := table.Open(path)
	if err != nil {
		t.Fatalf("table.Open: %v", err)
	}
	defer tbl.Close()

	stmt, result := prepareStatement("insert 1 user1 person1@example.com")
	if result != PrepareSuccess {
		t.Fatalf("prepareStatement: %v", result)
	}
	execResult, err := executeStatement(stmt, tbl)
	if err != nil {
		t.Fatalf("executeStatement: %v", err)
	}
	if execResult != ExecuteSuccess {
		t.Fatalf("execResult = %v, want ExecuteSuccess", execResult)
	}

	execResult, err = executeStatement(stmt, tbl)
	if err != nil {
		t.Fatalf("executeStatement (duplicate): %v", err)
	}
	if execResult != ExecuteDuplicateKey {
		t.Errorf("execResult = %v, want ExecuteDuplicateKey", execResult)
	}

	execResult, err = executeStatement(Statement{Type: StatementSelect}, tbl)
	if err != nil {
		t.Fatalf("executeStatement (select): %v", err)
	}
	if execResult != ExecuteSuccess {
		t.Errorf("select execResult = %v, want ExecuteSuccess", execResult)
	}
}

func TestDoMetaCommandUnrecognized(t *testing.T) {
	path := t.TempDir() + "/test.db"
	tbl, err := table.Open(path)
	if err != nil {
		t.Fatalf("table.Open: %v", err)
	}
	defer tbl.Close()

	if got := doMetaCommand(".frobnicate", tbl); got != MetaCommandUnrecognizedCommand {
		t.Errorf("doMetaCommand = %v, want MetaCommandUnrecognizedCommand", got)
	}
}

func TestDoMetaCommandConstants(t *testing.T) {
	path := t.TempDir() + "/test.db"
	tbl, err := table.Open(path)
	if err != nil {
		t.Fatalf("table.Open: %v", err)
	}
	defer tbl.Close()

	if got := doMetaCommand(".constants", tbl); got != MetaCommandSuccess {
		t.Errorf("doMetaCommand(.constants) = %v, want MetaCommandSuccess", got)
	}
}
