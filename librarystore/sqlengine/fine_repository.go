package sqlengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/relational-library-store-go/library"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
)

const (
	actionReadFines  = "read fines"
	actionReadFine   = "read fine"
	actionCreateFine = "create fine"
	actionDeleteFine = "delete fine"
)

// FineRepository reads and writes Fine aggregates (fine with its loan chain).
type FineRepository struct {
	store *Store
}

func fineMapping() librarystore.RowMapping[library.FineID, library.Fine] {
	return librarystore.RowMapping[library.FineID, library.Fine]{
		KeyOf: func(row librarystore.Row) (library.FineID, error) {
			return row.GetInt(resFineID)
		},
		BuildRoot: func(row librarystore.Row) (*library.Fine, error) {
			fine, err := readFine(row)
			if err != nil {
				return nil, err
			}

			return &fine, nil
		},
	}
}

// ReadAll returns all fines, highest amount first.
func (r FineRepository) ReadAll(ctx context.Context) ([]library.Fine, error) {
	query := r.store.selectFines().Order(col(aliasFine, colAmount).Desc(), col(aliasFine, colID).Asc())

	return materialize(ctx, r.store, actionReadFines, query, fineMapping())
}

// Read returns the fine with the given ID; found is false if there is none.
func (r FineRepository) Read(ctx context.Context, id library.FineID) (library.Fine, bool, error) {
	query := r.store.selectFines().Where(col(aliasFine, colID).Eq(id))

	return materializeOne(ctx, r.store, actionReadFine, query, fineMapping())
}

// Create charges a fine against the fine's loan.
func (r FineRepository) Create(ctx context.Context, fine library.Fine) (bool, error) {
	insert := r.store.dialect.Insert(tableFine).Rows(goqu.Record{
		colAmount:   fine.Amount,
		colInterest: fine.Interest,
		colLoanID:   fine.Loan.ID,
	}).Prepared(true)

	return r.store.execSingle(ctx, actionCreateFine, insert)
}

// Delete removes the fine; it returns false if there is none.
func (r FineRepository) Delete(ctx context.Context, id library.FineID) (bool, error) {
	del := r.store.dialect.Delete(tableFine).Where(goqu.C(colID).Eq(id)).Prepared(true)

	return r.store.execSingle(ctx, actionDeleteFine, del)
}
