package inmemdb

import (
	"context"

	"github.com/trezcool/studentportal/core/user"
)

type userRepository struct {
	db *table[user.User]
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, r := range repo.db.rows {
		if r.val.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}

	repo.db.seq++
	usr.ID = newID()
	repo.db.rows[usr.ID] = &record[user.User]{seq: repo.db.seq, val: usr}
	return usr, nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	if err := checkID(id); err != nil {
		return user.User{}, err
	}

	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.rows[id]; ok {
		return r.val, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, r := range repo.db.rows {
		if r.val.Email == email {
			return r.val, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) CountUsersByEmail(_ context.Context, email string) (int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int64
	for _, r := range repo.db.rows {
		if r.val.Email == email {
			count++
		}
	}
	return count, nil
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r, ok := repo.db.rows[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	for id, other := range repo.db.rows {
		if id != usr.ID && other.val.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	usr.CreatedAt = r.val.CreatedAt
	r.val = usr
	return usr, nil
}
