package pgsql

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mu-L/prisma1/db/sqldb"
)

type Rows struct {
	conn    *pgxpool.Conn // nil unless the cursor owns the connection
	current pgx.Rows
}

// Ensure pgsql.Rows implements sqldb.Rows
var _ sqldb.Rows = (*Rows)(nil)

func (r *Rows) Next() bool {
	return r.current.Next()
}

func (r *Rows) Scan(dest ...any) error {
	return r.current.Scan(dest...)
}

func (r *Rows) Close() error {
	if r.current != nil {
		r.current.Close()
	}
	if r.conn != nil {
		r.conn.Release()
	}
	return nil
}

func (r *Rows) Err() error {
	return r.current.Err()
}
