package model

import "slices"

type Column struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	TaskIDs []string `json:"taskIds"`
}

func (c Column) Clone() Column {
	c.TaskIDs = slices.Clone(c.TaskIDs)
	return c
}
