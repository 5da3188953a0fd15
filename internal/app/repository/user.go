package repository

import (
	"paytrack/internal/app/ds"

	"github.com/google/uuid"
)

// Методы для пользователей (ORM)

func (r *Repository) GetUserByID(id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}

func (r *Repository) GetUserByLogin(login string) (*ds.User, error) {
	var user ds.User
	err := r.db.Where("login = ?", login).First(&user).Error
	if err != nil {
		return nil, notFound(err, "user", login)
	}
	return &user, nil
}

func (r *Repository) LoginTaken(login string) (bool, error) {
	return exists(r.db, &ds.User{}, "login = ?", login)
}

func (r *Repository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&ds.User{}).Count(&count).Error
	return count, err
}

func (r *Repository) CreateUser(user *ds.User) error {
	if user.UUID == uuid.Nil {
		user.UUID = uuid.New()
	}
	return r.db.Create(user).Error
}

func (r *Repository) UpdateUser(user *ds.User) error {
	return r.db.Model(&ds.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"full_name":     user.FullName,
			"email":         user.Email,
			"password_hash": user.PasswordHash,
		}).Error
}

func (r *Repository) UpdateUserRole(id uint, userRole int) (*ds.User, error) {
	user, err := r.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(user).Update("role", userRole).Error; err != nil {
		return nil, err
	}
	user.Role = userRole
	return user, nil
}
