package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/model"
)

// Seed is what a session starts from.
type Seed struct {
	Board model.Board
	Users map[string]model.User
}

type SeedSource interface {
	Load(ctx context.Context) (Seed, error)
}

// PostgresSeed reads the seed from the database.
type PostgresSeed struct {
	boards *BoardRepository
	users  UserRepositoryInterface
}

func NewPostgresSeed(boards *BoardRepository, users UserRepositoryInterface) *PostgresSeed {
	return &PostgresSeed{boards: boards, users: users}
}

func (p *PostgresSeed) Load(ctx context.Context) (Seed, error) {
	b, err := p.boards.Load(ctx)
	if err != nil {
		return Seed{}, fmt.Errorf("load board: %w", err)
	}
	users, err := p.users.List(ctx)
	if err != nil {
		return Seed{}, fmt.Errorf("load users: %w", err)
	}
	return Seed{Board: b, Users: users}, nil
}

// FixtureSeed is the built-in demo board. Due dates are relative to the
// moment it is loaded.
type FixtureSeed struct {
	Now func() time.Time
}

func (f FixtureSeed) Load(context.Context) (Seed, error) {
	now := time.Now().UTC()
	if f.Now != nil {
		now = f.Now()
	}
	return Seed{Board: DefaultBoard(now), Users: DefaultUsers()}, nil
}

const day = 24 * time.Hour

func DefaultBoard(now time.Time) model.Board {
	at := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}
	who := func(id string) *string { return &id }
	comment := func(id, text, author string) model.Comment {
		return model.Comment{ID: id, Text: text, Author: author, CreatedAt: now}
	}
	task := func(id, title, desc string, due *time.Time, assignee *string, comments ...model.Comment) model.Task {
		if comments == nil {
			comments = []model.Comment{}
		}
		return model.Task{
			ID: id, Title: title, Description: desc,
			CreatedAt: now, UpdatedAt: now,
			Comments: comments, DueDate: due, AssignedTo: assignee,
		}
	}

	return model.Board{
		Columns: []model.Column{
			{ID: "column-1", Title: "To Do", TaskIDs: []string{"task-1", "task-2", "task-3"}},
			{ID: "column-2", Title: "In Progress", TaskIDs: []string{"task-4", "task-5"}},
			{ID: "column-3", Title: "Done", TaskIDs: []string{"task-6"}},
		},
		ColumnOrder: []string{"column-1", "column-2", "column-3"},
		Tasks: map[string]model.Task{
			"task-1": task("task-1", "Create project structure", "Set up the initial project files and dependencies",
				at(2*day), nil,
				comment("comment-1", "Let's use Next.js for this project", "user-john")),
			"task-2": task("task-2", "Implement drag and drop", "Add the ability to drag tasks between columns",
				at(3*day), who("user-sarah")),
			"task-3": task("task-3", "Add real-time updates", "Implement Socket.IO for real-time collaboration",
				at(5*day), nil),
			"task-4": task("task-4", "Style the UI", "Add responsive styling with Tailwind CSS",
				at(-day), who("user-michael")),
			"task-5": task("task-5", "Add user presence", "Show which users are online and what they're editing",
				at(day), nil,
				comment("comment-2", "I'll work on this feature", "user-emily"),
				comment("comment-3", "Great, let me know if you need help", "user-sarah")),
			"task-6": task("task-6", "Write documentation", "Create a README with setup instructions",
				nil, who("user-emily"),
				comment("comment-4", "Documentation is ready for review", "user-emily")),
		},
	}
}

func DefaultUsers() map[string]model.User {
	names := map[string]string{
		"user-john":    "John Smith",
		"user-sarah":   "Sarah Johnson",
		"user-michael": "Michael Brown",
		"user-emily":   "Emily Davis",
		"user-david":   "David Wilson",
		"user-jessica": "Jessica Lee",
		"user-robert":  "Robert Taylor",
		"user-amanda":  "Amanda Clark",
	}
	users := make(map[string]model.User, len(names))
	for id, name := range names {
		users[id] = model.User{ID: id, Name: name, Avatar: model.AvatarURL(name)}
	}
	return users
}

// NewSeedSource picks the seed source by name. The postgres source needs a
// board and user repository.
func NewSeedSource(name string, boards *BoardRepository, users UserRepositoryInterface) (SeedSource, error) {
	switch name {
	case "", "fixture":
		return FixtureSeed{}, nil
	case "postgres":
		if boards == nil || users == nil {
			return nil, errors.New("postgres seed source needs a database connection")
		}
		return NewPostgresSeed(boards, users), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSeedSource, name)
}
