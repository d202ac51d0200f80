package repository_test

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardRepository_Load(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	boardRepo := repository.NewBoardRepository(gormDB)
	due := seededAt.Add(48 * time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "columns" ORDER BY position`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "position"}).
			AddRow("column-1", "To Do", 0).
			AddRow("column-2", "Done", 1))
	mock.ExpectQuery(`SELECT \* FROM "tasks" ORDER BY column_id,position`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "column_id", "title", "description", "assigned_to", "due_date", "position", "created_at", "updated_at"}).
			AddRow("task-1", "column-1", "Create project structure", "", nil, due, 0, seededAt, seededAt).
			AddRow("task-2", "column-1", "Implement drag and drop", "", "user-sarah", nil, 1, seededAt, seededAt).
			AddRow("task-9", "column-gone", "Orphan", "", nil, nil, 0, seededAt, seededAt))
	mock.ExpectQuery(`SELECT \* FROM "comments" ORDER BY created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "task_id", "text", "author", "created_at"}).
			AddRow("comment-1", "task-1", "Let's go", "user-john", seededAt).
			AddRow("comment-9", "task-9", "lost", "user-john", seededAt))

	// Act
	b, err := boardRepo.Load(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"column-1", "column-2"}, b.ColumnOrder)
	assert.Equal(t, []string{"task-1", "task-2"}, b.Columns[0].TaskIDs)
	assert.Empty(t, b.Columns[1].TaskIDs)
	assert.NotContains(t, b.Tasks, "task-9")
	require.Len(t, b.Tasks["task-1"].Comments, 1)
	assert.Equal(t, "user-sarah", *b.Tasks["task-2"].AssignedTo)
	assert.True(t, due.Equal(*b.Tasks["task-1"].DueDate))
	assert.NoError(t, board.Check(b))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_Load_Empty(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	boardRepo := repository.NewBoardRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "columns"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "position"}))

	// Act
	_, err := boardRepo.Load(context.Background())

	// Assert
	assert.ErrorIs(t, err, repository.ErrSeedEmpty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_Load_Error(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	boardRepo := repository.NewBoardRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "columns"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "position"}).AddRow("column-1", "To Do", 0))
	mock.ExpectQuery(`SELECT \* FROM "tasks"`).
		WillReturnError(assert.AnError)

	// Act
	_, err := boardRepo.Load(context.Background())

	// Assert
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
