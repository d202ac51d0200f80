package model

import "time"

type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text" validate:"notblank"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}
