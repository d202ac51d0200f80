package repository_test

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixtureSeed_Load(t *testing.T) {
	// Arrange
	seed := repository.FixtureSeed{Now: func() time.Time { return seededAt }}

	// Act
	s, err := seed.Load(context.Background())

	// Assert
	require.NoError(t, err)
	assert.NoError(t, board.Check(s.Board))
	assert.Equal(t, []string{"column-1", "column-2", "column-3"}, s.Board.ColumnOrder)
	assert.Len(t, s.Board.Tasks, 6)
	assert.Len(t, s.Users, 8)
	assert.Equal(t, model.DueOverdue, s.Board.Tasks["task-4"].DueStatusAt(seededAt))
	assert.Equal(t, model.DueSoon, s.Board.Tasks["task-5"].DueStatusAt(seededAt))
	assert.Nil(t, s.Board.Tasks["task-6"].DueDate)
	assert.Len(t, s.Board.Tasks["task-5"].Comments, 2)
	assert.NotNil(t, s.Board.Tasks["task-3"].Comments)
}

func TestFixtureSeed_FreshBoardEachLoad(t *testing.T) {
	// Arrange
	seed := repository.FixtureSeed{}
	first, _ := seed.Load(context.Background())

	// Act
	first.Board.Columns[0].TaskIDs[0] = "mutated"
	second, err := seed.Load(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "task-1", second.Board.Columns[0].TaskIDs[0])
}

func TestNewSeedSource(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	boards := repository.NewBoardRepository(gormDB)
	users := repository.NewUserRepository(gormDB)

	tests := []struct {
		name    string
		source  string
		withDB  bool
		want    any
		wantErr error
		anyErr  bool
	}{
		{name: "default is fixture", source: "", want: repository.FixtureSeed{}},
		{name: "fixture", source: "fixture", want: repository.FixtureSeed{}},
		{name: "postgres", source: "postgres", withDB: true, want: &repository.PostgresSeed{}},
		{name: "postgres without database", source: "postgres", anyErr: true},
		{name: "unknown", source: "mysql", wantErr: repository.ErrUnknownSeedSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			var (
				src repository.SeedSource
				err error
			)
			if tt.withDB {
				src, err = repository.NewSeedSource(tt.source, boards, users)
			} else {
				src, err = repository.NewSeedSource(tt.source, nil, nil)
			}

			// Assert
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.IsType(t, tt.want, src)
			}
		})
	}
}

func TestPostgresSeed_Load(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	seed := repository.NewPostgresSeed(repository.NewBoardRepository(gormDB), repository.NewUserRepository(gormDB))

	mock.ExpectQuery(`SELECT \* FROM "columns"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "position"}).AddRow("column-1", "To Do", 0))
	mock.ExpectQuery(`SELECT \* FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "column_id", "title", "position"}))
	mock.ExpectQuery(`SELECT \* FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "task_id", "text"}))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "avatar"}).AddRow("user-john", "John Smith", ""))

	// Act
	s, err := seed.Load(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"column-1"}, s.Board.ColumnOrder)
	assert.Contains(t, s.Users, "user-john")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSeed_Load_EmptyBoard(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	seed := repository.NewPostgresSeed(repository.NewBoardRepository(gormDB), repository.NewUserRepository(gormDB))

	mock.ExpectQuery(`SELECT \* FROM "columns"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "position"}))

	// Act
	_, err := seed.Load(context.Background())

	// Assert
	assert.ErrorIs(t, err, repository.ErrSeedEmpty)
}
