package mysql

import "github.com/Mu-L/prisma1/db/sqldb"

// LoadRawStmtsToStore fills the store from all registered groups.
// MySQL keeps the `?` markers as-is.
// WARNING: Ensure required imports beforehand
func LoadRawStmtsToStore(store *sqldb.RawStore) error {
	return sqldb.LoadRawStmtsToStore(store, DBType, DefaultPlaceholderPrefix)
}
