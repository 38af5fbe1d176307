package mysql

import (
	"fmt"

	"github.com/Mu-L/prisma1/db/sqldb"
)

// keyRows is the generated-keys cursor: a single row holding the
// auto-increment id of the inserted record.
type keyRows struct {
	id   int64
	done bool
}

var _ sqldb.Rows = (*keyRows)(nil)

func (r *keyRows) Next() bool {
	if r.done {
		return false
	}
	r.done = true
	return true
}

func (r *keyRows) Scan(dest ...any) error {
	if len(dest) != 1 {
		return fmt.Errorf("generated-keys row has exactly 1 column, got %d targets", len(dest))
	}
	switch d := dest[0].(type) {
	case *int64:
		*d = r.id
	case *int:
		*d = int(r.id)
	case *uint64:
		*d = uint64(r.id)
	case *any:
		*d = r.id
	default:
		return fmt.Errorf("unsupported generated-key target %T", dest[0])
	}
	return nil
}

func (r *keyRows) Close() error { return nil }

func (r *keyRows) Err() error { return nil }
