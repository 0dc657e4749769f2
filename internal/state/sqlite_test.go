package state

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/miqat/pkg/salah"
)

var fixedNow = time.Date(2021, 4, 9, 12, 0, 0, 0, time.UTC)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"), "failed to open store")
	require.NoError(t, store.Migrate(), "failed to migrate")
	store.now = func() time.Time { return fixedNow }
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func jakarta() *Location {
	return &Location{Name: "jakarta", Latitude: -6.18234, Longitude: 106.84287, Timezone: 7}
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"))
	assert.Equal(t, ":memory:", store.Path())
	require.NoError(t, store.Close())
}

func TestSQLiteStore_OpenFile(t *testing.T) {
	path := t.TempDir() + "/state.db"

	store := NewSQLiteStore()
	require.NoError(t, store.Open(path))
	require.NoError(t, store.Migrate())
	require.NoError(t, store.AddLocation(context.Background(), jakarta()))
	require.NoError(t, store.Close())

	reopened := NewSQLiteStore()
	require.NoError(t, reopened.Open(path))
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate())

	loc, err := reopened.GetLocation(context.Background(), "jakarta")
	require.NoError(t, err)
	assert.Equal(t, 106.84287, loc.Longitude)
}

func TestSQLiteStore_Migrate(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate())
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore()
	ctx := context.Background()

	assert.Error(t, store.Migrate())
	assert.Error(t, store.AddLocation(ctx, jakarta()))
	assert.Error(t, store.UpdateLocation(ctx, jakarta()))
	assert.Error(t, store.DeleteLocation(ctx, "jakarta"))
	_, err := store.GetLocation(ctx, "jakarta")
	assert.Error(t, err)
	_, err = store.ListLocations(ctx)
	assert.Error(t, err)
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_LocationLifecycle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	loc := jakarta()
	require.NoError(t, store.AddLocation(ctx, loc))
	assert.NotEmpty(t, loc.ID)
	assert.Equal(t, fixedNow, loc.CreatedAt)

	got, err := store.GetLocation(ctx, "jakarta")
	require.NoError(t, err)
	assert.Equal(t, loc.ID, got.ID)
	assert.Equal(t, -6.18234, got.Latitude)
	assert.Equal(t, 7.0, got.Timezone)
	assert.True(t, fixedNow.Equal(got.CreatedAt))

	got.Method = "umm-al-qura"
	got.Timezone = 8
	require.NoError(t, store.UpdateLocation(ctx, got))

	updated, err := store.GetLocation(ctx, "jakarta")
	require.NoError(t, err)
	assert.Equal(t, "umm-al-qura", updated.Method)
	assert.Equal(t, 8.0, updated.Timezone)

	require.NoError(t, store.DeleteLocation(ctx, "jakarta"))
	_, err = store.GetLocation(ctx, "jakarta")
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestSQLiteStore_AddDuplicate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddLocation(ctx, jakarta()))
	err := store.AddLocation(ctx, jakarta())
	assert.ErrorIs(t, err, ErrLocationExists)
}

func TestSQLiteStore_NotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.DeleteLocation(ctx, "mars"), ErrLocationNotFound)
	assert.ErrorIs(t, store.UpdateLocation(ctx, &Location{Name: "mars"}), ErrLocationNotFound)
	_, err := store.GetLocation(ctx, "mars")
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestSQLiteStore_ListLocations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	empty, err := store.ListLocations(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, name := range []string{"makkah", "cairo", "jakarta"} {
		loc := jakarta()
		loc.Name = name
		require.NoError(t, store.AddLocation(ctx, loc))
	}

	locations, err := store.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 3)

	names := make([]string, len(locations))
	for i, l := range locations {
		names[i] = l.Name
	}
	assert.Equal(t, []string{"cairo", "jakarta", "makkah"}, names)
}

func TestLocation_Validate(t *testing.T) {
	tests := []struct {
		name    string
		loc     Location
		wantErr bool
	}{
		{name: "valid", loc: *jakarta()},
		{name: "with overrides", loc: Location{Name: "x", Method: "isna", Madhab: "hanafi"}},
		{name: "missing name", loc: Location{Latitude: 1}, wantErr: true},
		{name: "bad latitude", loc: Location{Name: "x", Latitude: 91}, wantErr: true},
		{name: "bad method", loc: Location{Name: "x", Method: "tehran"}, wantErr: true},
		{name: "bad madhab", loc: Location{Name: "x", Madhab: "zahiri"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.loc.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSQLiteStore_AddInvalid(t *testing.T) {
	store := setupTestStore(t)
	err := store.AddLocation(context.Background(), &Location{Name: "x", Latitude: 100})
	assert.ErrorIs(t, err, salah.ErrInvalidLocation)
}

func TestLocation_Apply(t *testing.T) {
	base := salah.NewConfig().With(salah.Singapore, salah.Shafi).WithSummerTime(true)

	loc := jakarta()
	assert.Equal(t, base, loc.Apply(base))

	loc.Method = "egyptian"
	got := loc.Apply(base)
	assert.Equal(t, salah.Egyptian, got.Method)
	assert.Equal(t, salah.Shafi, got.Madhab)
	assert.True(t, got.SummerTime)

	loc.Method = ""
	loc.Madhab = "hanafi"
	got = loc.Apply(base)
	assert.Equal(t, salah.Singapore, got.Method)
	assert.Equal(t, salah.Hanafi, got.Madhab)
}

func TestSQLiteStore_DatabaseErrors(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		run       func(s *SQLiteStore) error
		errMsg    string
	}{
		{
			name: "insert fails and rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT COUNT").WithArgs("jakarta").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectExec("INSERT INTO locations").WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			run: func(s *SQLiteStore) error {
				return s.AddLocation(context.Background(), jakarta())
			},
			errMsg: "failed to insert location jakarta",
		},
		{
			name: "begin fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(assert.AnError)
			},
			run: func(s *SQLiteStore) error {
				return s.AddLocation(context.Background(), jakarta())
			},
			errMsg: "failed to begin transaction",
		},
		{
			name: "get fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, name").WithArgs("jakarta").WillReturnError(assert.AnError)
			},
			run: func(s *SQLiteStore) error {
				_, err := s.GetLocation(context.Background(), "jakarta")
				return err
			},
			errMsg: "failed to get location jakarta",
		},
		{
			name: "list with corrupt timestamp",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, name").WillReturnRows(
					sqlmock.NewRows([]string{"id", "name", "latitude", "longitude", "timezone", "method", "madhab", "created_at", "updated_at"}).
						AddRow("1", "jakarta", -6.1, 106.8, 7.0, "", "", "yesterday", "today"),
				)
			},
			run: func(s *SQLiteStore) error {
				_, err := s.ListLocations(context.Background())
				return err
			},
			errMsg: "invalid timestamp",
		},
		{
			name: "delete fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM locations").WithArgs("jakarta").WillReturnError(assert.AnError)
			},
			run: func(s *SQLiteStore) error {
				return s.DeleteLocation(context.Background(), "jakarta")
			},
			errMsg: "failed to delete location jakarta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			tt.setupMock(mock)
			err = tt.run(NewSQLiteStoreWithDB(db))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestOpenMigrated_CreatesDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/dir/state.db"

	store, err := OpenMigrated(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	locations, err := store.ListLocations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, locations)
}
