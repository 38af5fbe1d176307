package sqldb

// Stmt is a fully rendered SQL statement. Placeholders, if any, are
// positional markers already converted for the target dialect.
type Stmt string

// SQL returns the rendered statement text.
func (s Stmt) SQL() string { return string(s) }
