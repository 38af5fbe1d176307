package pgsql

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Mu-L/prisma1/db/sqldb"
)

type Result struct {
	tag pgconn.CommandTag
}

// Ensure pgsql.Result implements sqldb.Result
var _ sqldb.Result = (*Result)(nil)

func (r *Result) RowsAffected() (int64, error) {
	return r.tag.RowsAffected(), nil
}

// LastInsertId - PostgreSQL does not support LastInsertId.
// Generated keys flow through `RETURNING` and the keys cursor instead.
func (r *Result) LastInsertId() (int64, error) {
	return 0, fmt.Errorf("LastInsertId not supported; use generated-key capture instead")
}
