package repository

import "time"

// Rows of the read-only seed tables. Ids are opaque text so the fixture ids
// (column-1, task-1, user-john) load unchanged.

type ColumnRow struct {
	ID       string `gorm:"type:text;primaryKey"`
	Title    string `gorm:"not null"`
	Position int    `gorm:"not null"`
}

func (ColumnRow) TableName() string { return "columns" }

type TaskRow struct {
	ID          string `gorm:"type:text;primaryKey"`
	ColumnID    string `gorm:"type:text;not null;index"`
	Title       string `gorm:"not null"`
	Description string
	AssignedTo  *string `gorm:"type:text"`
	DueDate     *time.Time
	Position    int `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TaskRow) TableName() string { return "tasks" }

type CommentRow struct {
	ID        string `gorm:"type:text;primaryKey"`
	TaskID    string `gorm:"type:text;not null;index"`
	Text      string `gorm:"not null"`
	Author    string `gorm:"type:text"`
	CreatedAt time.Time
}

func (CommentRow) TableName() string { return "comments" }

type UserRow struct {
	ID     string `gorm:"type:text;primaryKey"`
	Name   string `gorm:"not null"`
	Avatar string
}

func (UserRow) TableName() string { return "users" }
