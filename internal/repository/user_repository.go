package repository

import (
	"context"

	"taskboard/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

type UserRepositoryInterface interface {
	List(ctx context.Context) (map[string]model.User, error)
}

var _ UserRepositoryInterface = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List returns the user directory keyed by id. Users without an avatar get
// a generated one.
func (r *UserRepository) List(ctx context.Context) (map[string]model.User, error) {
	var rows []UserRow
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make(map[string]model.User, len(rows))
	for _, row := range rows {
		users[row.ID] = toUser(row)
	}
	return users, nil
}

func toUser(row UserRow) model.User {
	avatar := row.Avatar
	if avatar == "" {
		avatar = model.AvatarURL(row.Name)
	}
	return model.User{ID: row.ID, Name: row.Name, Avatar: avatar}
}
