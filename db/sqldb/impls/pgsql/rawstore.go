package pgsql

import "github.com/Mu-L/prisma1/db/sqldb"

// LoadRawStmtsToStore fills the store from all registered groups with
// placeholders converted to the $n form.
// WARNING: Ensure required imports beforehand
func LoadRawStmtsToStore(store *sqldb.RawStore) error {
	return sqldb.LoadRawStmtsToStore(store, DBType, DefaultPlaceholderPrefix)
}
