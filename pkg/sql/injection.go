package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a SQL injection pattern detected in a
// WHERE comparison value.
type InjectionCheckResult struct {
	IsSQLi      bool
	Fingerprint string // libinjection fingerprint of the detected pattern
	Column      string
	Value       string
}

// CheckFilterValue runs libinjection over a WHERE comparison value.
// Comparison values are the only externally influenced text that reaches
// the interpreter, so they are the only thing checked.
//
// Returns nil when the value is clean.
func CheckFilterValue(column, value string) *InjectionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		IsSQLi:      true,
		Fingerprint: string(fingerprint),
		Column:      column,
		Value:       value,
	}
}

// CheckStatement validates a parsed statement's filter for injection
// attempts. Returns nil when there is no filter or the value is clean.
func CheckStatement(stmt *Statement) *InjectionCheckResult {
	if stmt == nil || stmt.Where == nil {
		return nil
	}
	return CheckFilterValue(stmt.Where.Column, stmt.Where.Value)
}
