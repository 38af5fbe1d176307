package action

import (
	"github.com/Mu-L/prisma1/db/sqldb"
	"github.com/Mu-L/prisma1/orm"
)

// ReadFirstKey reads the first generated key as int64.
func ReadFirstKey(rows sqldb.Rows) (int64, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, sqldb.ErrNoRows
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// ReadItem makes a Reader that scans exactly one row into a new model.
// Fails with sqldb.ErrNoRows on an empty cursor.
func ReadItem[
	M any, // Model struct
	MP sqldb.Scannable[M], // *Model Implementing Scannable[M]
]() Reader[*M] {
	return func(rows sqldb.Rows) (*M, error) {
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return nil, sqldb.ErrNoRows
		}
		var item M
		p := MP(&item)
		if err := rows.Scan(p.FieldsToScan()...); err != nil {
			return nil, err
		}
		return &item, nil
	}
}

// ReadItems makes a Reader that scans all rows into a slice of models.
func ReadItems[
	M any, // Model struct
	MP sqldb.Scannable[M], // *Model Implementing Scannable[M]
]() Reader[[]*M] {
	return func(rows sqldb.Rows) ([]*M, error) {
		return sqldb.ScanRowsToItems[M, MP](rows)
	}
}

// ReadCollection makes a Reader that scans all rows into an ordered collection.
func ReadCollection[
	M any, // Model struct
	MP sqldb.ScannableIdentifiable[M, ID], // *Model implementing ScannableIdentifiable[M, ID]
	ID comparable,
]() Reader[*orm.Collection[MP, ID]] {
	return func(rows sqldb.Rows) (*orm.Collection[MP, ID], error) {
		return sqldb.ScanRowsToCollection[M, MP, ID](rows)
	}
}
