package repository

import (
	"context"

	"taskboard/internal/model"

	"gorm.io/gorm"
)

// BoardRepository reads the starting board from the seed tables.
type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// Load assembles the board: columns by position, each column's tasks by
// position, each task's comments oldest first. Tasks whose column is missing
// are skipped.
func (r *BoardRepository) Load(ctx context.Context) (model.Board, error) {
	db := r.db.WithContext(ctx)

	var columns []ColumnRow
	if err := db.Order("position").Find(&columns).Error; err != nil {
		return model.Board{}, err
	}
	if len(columns) == 0 {
		return model.Board{}, ErrSeedEmpty
	}

	var tasks []TaskRow
	if err := db.Order("column_id").Order("position").Find(&tasks).Error; err != nil {
		return model.Board{}, err
	}

	var comments []CommentRow
	if err := db.Order("created_at").Find(&comments).Error; err != nil {
		return model.Board{}, err
	}

	b := model.NewBoard()
	for _, c := range columns {
		b.Columns = append(b.Columns, model.Column{ID: c.ID, Title: c.Title, TaskIDs: []string{}})
		b.ColumnOrder = append(b.ColumnOrder, c.ID)
	}
	for _, t := range tasks {
		idx := b.ColumnIndex(t.ColumnID)
		if idx == -1 {
			continue
		}
		b.Columns[idx].TaskIDs = append(b.Columns[idx].TaskIDs, t.ID)
		b.Tasks[t.ID] = model.Task{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
			Comments:    []model.Comment{},
			DueDate:     t.DueDate,
			AssignedTo:  t.AssignedTo,
		}
	}
	for _, c := range comments {
		task, ok := b.Tasks[c.TaskID]
		if !ok {
			continue
		}
		task.Comments = append(task.Comments, model.Comment{ID: c.ID, Text: c.Text, Author: c.Author, CreatedAt: c.CreatedAt})
		b.Tasks[c.TaskID] = task
	}
	return b, nil
}
