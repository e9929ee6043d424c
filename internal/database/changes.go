// internal/database/changes.go
//
// Changes collects the column assignments of a partial UPDATE so PATCH
// handlers only touch the fields the client sent.

package database

import "strings"

// Changes is an ordered list of `col = ?` assignments.
type Changes struct {
	cols []string
	args []any
}

// Set records one assignment.  col must be a trusted identifier.
func (c *Changes) Set(col string, val any) {
	c.cols = append(c.cols, col+" = ?")
	c.args = append(c.args, val)
}

// Empty reports whether nothing was set.
func (c *Changes) Empty() bool { return len(c.cols) == 0 }

// Clause returns "a = ?, b = ?" and the matching args.
func (c *Changes) Clause() (string, []any) {
	return strings.Join(c.cols, ", "), c.args
}
