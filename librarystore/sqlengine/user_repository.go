package sqlengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/relational-library-store-go/library"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
)

const (
	actionReadUsers  = "read users"
	actionReadUser   = "read user"
	actionCreateUser = "create user"
	actionDeleteUser = "delete user"
)

// UserRepository provides single-table CRUD for library users.
type UserRepository struct {
	store *Store
}

func (r UserRepository) selectUsers() *goqu.SelectDataset {
	return r.store.dialect.From(tableUser).Select(
		goqu.C(colID).As(resUserID),
		goqu.C(colName).As(resUserName),
		goqu.C(colEmail).As(resUserEmail),
		goqu.C(colPhone).As(resUserPhone),
		goqu.C(colRole).As(resUserRole),
	).Prepared(true)
}

func userMapping() librarystore.RowMapping[library.UserID, library.User] {
	return librarystore.RowMapping[library.UserID, library.User]{
		KeyOf: func(row librarystore.Row) (library.UserID, error) {
			return row.GetInt(resUserID)
		},
		BuildRoot: func(row librarystore.Row) (*library.User, error) {
			user, err := readUser(row)
			if err != nil {
				return nil, err
			}

			return &user, nil
		},
	}
}

// ReadAll returns all users ordered by name.
func (r UserRepository) ReadAll(ctx context.Context) ([]library.User, error) {
	query := r.selectUsers().Order(goqu.C(colName).Asc(), goqu.C(colID).Asc())

	return materialize(ctx, r.store, actionReadUsers, query, userMapping())
}

// Read returns the user with the given ID; found is false if there is none.
func (r UserRepository) Read(ctx context.Context, id library.UserID) (library.User, bool, error) {
	return materializeOne(ctx, r.store, actionReadUser, r.selectUsers().Where(goqu.C(colID).Eq(id)), userMapping())
}

// Create inserts the user and returns its generated ID.
func (r UserRepository) Create(ctx context.Context, user library.User) (library.UserID, error) {
	insert := r.store.dialect.Insert(tableUser).Rows(goqu.Record{
		colName:  user.Name,
		colEmail: user.Email,
		colPhone: user.Phone,
		colRole:  user.Role,
	}).Prepared(true)

	return r.store.insertReturningID(ctx, actionCreateUser, insert)
}

// Delete removes the user; it returns false if there is none.
func (r UserRepository) Delete(ctx context.Context, id library.UserID) (bool, error) {
	return r.store.execSingle(ctx, actionDeleteUser,
		r.store.dialect.Delete(tableUser).Where(goqu.C(colID).Eq(id)).Prepared(true))
}
