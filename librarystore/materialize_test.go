package librarystore_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
)

type shelf struct {
	ID      int64
	Name    string
	Volumes []volume
}

type volume struct {
	ID    int64
	Title string
}

func shelfMapping(buildCalls *int) librarystore.RowMapping[int64, shelf] {
	return librarystore.RowMapping[int64, shelf]{
		KeyOf: func(row librarystore.Row) (int64, error) {
			return row.GetInt("shelf_id")
		},
		BuildRoot: func(row librarystore.Row) (*shelf, error) {
			*buildCalls++

			id, err := row.GetInt("shelf_id")
			if err != nil {
				return nil, err
			}

			name, err := row.GetString("shelf_name")
			if err != nil {
				return nil, err
			}

			return &shelf{ID: id, Name: name, Volumes: make([]volume, 0)}, nil
		},
		AttachChild: func(root *shelf, row librarystore.Row) error {
			id, err := row.GetInt("volume_id")
			if err != nil {
				return err
			}

			title, err := row.GetString("volume_title")
			if err != nil {
				return err
			}

			root.Volumes, _ = librarystore.AppendUnique(root.Volumes, volume{ID: id, Title: title}, func(v volume) int64 {
				return v.ID
			})

			return nil
		},
	}
}

func shelfRow(shelfID int64, shelfName string, volumeID any, volumeTitle any) librarystore.Row {
	return librarystore.BuildRow(map[string]any{
		"shelf_id":     shelfID,
		"shelf_name":   shelfName,
		"volume_id":    volumeID,
		"volume_title": volumeTitle,
	})
}

type brokenCursor struct {
	*librarystore.RowsCursor
	err error
}

func (c brokenCursor) Err() error {
	return c.err
}

func Test_Materialize_GroupsRowsByKey_InFirstAppearanceOrder(t *testing.T) {
	// arrange
	buildCalls := 0
	cursor := librarystore.NewRowsCursor(
		shelfRow(2, "Poetry", int64(20), "Odes"),
		shelfRow(1, "Novels", int64(10), "Dune"),
		shelfRow(2, "Poetry", int64(21), "Sonnets"),
		shelfRow(1, "Novels", int64(11), "Emma"),
	)

	// act
	shelves, err := librarystore.Materialize(cursor, shelfMapping(&buildCalls))

	// assert
	assert.NoError(t, err)
	assert.Len(t, shelves, 2)
	assert.Equal(t, int64(2), shelves[0].ID)
	assert.Equal(t, int64(1), shelves[1].ID)
	assert.Equal(t, []volume{{ID: 20, Title: "Odes"}, {ID: 21, Title: "Sonnets"}}, shelves[0].Volumes)
	assert.Equal(t, []volume{{ID: 10, Title: "Dune"}, {ID: 11, Title: "Emma"}}, shelves[1].Volumes)
	assert.Equal(t, 2, buildCalls, "BuildRoot must be called once per distinct key")
}

func Test_Materialize_DeduplicatesChildrenOfTheSameRoot(t *testing.T) {
	// arrange
	buildCalls := 0
	cursor := librarystore.NewRowsCursor(
		shelfRow(1, "Novels", int64(10), "Dune"),
		shelfRow(1, "Novels", int64(10), "Dune"),
		shelfRow(1, "Novels", int64(11), "Emma"),
	)

	// act
	shelves, err := librarystore.Materialize(cursor, shelfMapping(&buildCalls))

	// assert
	assert.NoError(t, err)
	assert.Len(t, shelves, 1)
	assert.Len(t, shelves[0].Volumes, 2)
}

func Test_Materialize_SkipsNullChild_FromLeftJoin(t *testing.T) {
	// arrange
	buildCalls := 0
	cursor := librarystore.NewRowsCursor(shelfRow(3, "Empty", nil, nil))

	// act
	shelves, err := librarystore.Materialize(cursor, shelfMapping(&buildCalls))

	// assert
	assert.NoError(t, err)
	assert.Len(t, shelves, 1)
	assert.Empty(t, shelves[0].Volumes)
}

func Test_Materialize_ReturnsEmptySlice_WhenCursorHasNoRows(t *testing.T) {
	// arrange
	buildCalls := 0

	// act
	shelves, err := librarystore.Materialize(librarystore.NewRowsCursor(), shelfMapping(&buildCalls))

	// assert
	assert.NoError(t, err)
	assert.NotNil(t, shelves)
	assert.Empty(t, shelves)
	assert.Zero(t, buildCalls)
}

func Test_Materialize_PropagatesMissingColumn(t *testing.T) {
	// arrange
	buildCalls := 0
	cursor := librarystore.NewRowsCursor(
		librarystore.BuildRow(map[string]any{"shelf_id": int64(1), "volume_id": int64(1), "volume_title": "x"}),
	)

	// act
	shelves, err := librarystore.Materialize(cursor, shelfMapping(&buildCalls))

	// assert
	assert.Nil(t, shelves)
	assert.ErrorIs(t, err, librarystore.ErrColumnMissing)
	assert.ErrorIs(t, err, librarystore.ErrDataAccess)
}

func Test_Materialize_PropagatesTypeMismatch(t *testing.T) {
	// arrange
	buildCalls := 0
	cursor := librarystore.NewRowsCursor(shelfRow(1, "Novels", "ten", "Dune"))

	// act
	_, err := librarystore.Materialize(cursor, shelfMapping(&buildCalls))

	// assert
	assert.ErrorIs(t, err, librarystore.ErrTypeMismatch)
}

func Test_Materialize_PropagatesCursorError(t *testing.T) {
	// arrange
	buildCalls := 0
	driverErr := errors.New("connection reset by peer")
	cursor := brokenCursor{RowsCursor: librarystore.NewRowsCursor(shelfRow(1, "Novels", int64(10), "Dune")), err: driverErr}

	// act
	_, err := librarystore.Materialize(cursor, shelfMapping(&buildCalls))

	// assert
	assert.ErrorIs(t, err, librarystore.ErrDataAccess)
	assert.ErrorIs(t, err, driverErr)
}

func Test_Materialize_WithoutAttachChild_YieldsOneRootPerKey(t *testing.T) {
	// arrange
	buildCalls := 0
	mapping := shelfMapping(&buildCalls)
	mapping.AttachChild = nil
	cursor := librarystore.NewRowsCursor(
		shelfRow(1, "Novels", nil, nil),
		shelfRow(2, "Poetry", nil, nil),
	)

	// act
	shelves, err := librarystore.Materialize(cursor, mapping)

	// assert
	assert.NoError(t, err)
	assert.Len(t, shelves, 2)
}

func Test_Materialize_RejectsIncompleteMapping(t *testing.T) {
	// act
	_, err := librarystore.Materialize(librarystore.NewRowsCursor(), librarystore.RowMapping[int64, shelf]{})

	// assert
	assert.ErrorIs(t, err, librarystore.ErrIncompleteRowMapping)
}

func Test_Materialize_RejectsNilRoot(t *testing.T) {
	// arrange
	mapping := librarystore.RowMapping[int64, shelf]{
		KeyOf:     func(librarystore.Row) (int64, error) { return 1, nil },
		BuildRoot: func(librarystore.Row) (*shelf, error) { return nil, nil },
	}

	// act
	_, err := librarystore.Materialize(librarystore.NewRowsCursor(librarystore.BuildRow(nil)), mapping)

	// assert
	assert.ErrorIs(t, err, librarystore.ErrNilRoot)
}

func Test_AppendUnique(t *testing.T) {
	identity := func(v volume) int64 { return v.ID }

	children, added := librarystore.AppendUnique([]volume{}, volume{ID: 1}, identity)
	assert.True(t, added)

	children, added = librarystore.AppendUnique(children, volume{ID: 1, Title: "again"}, identity)
	assert.False(t, added)

	children, added = librarystore.AppendUnique(children, volume{ID: 0}, identity)
	assert.False(t, added)
	assert.Equal(t, []volume{{ID: 1}}, children)
}
