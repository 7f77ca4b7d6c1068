package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/studentportal/core/user"
)

type userRow struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Password  []byte    `db:"password"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func newUserRow(usr user.User) userRow {
	return userRow{
		ID:        usr.ID,
		Email:     usr.Email,
		Password:  usr.PasswordHash,
		CreatedAt: usr.CreatedAt.UTC(),
		UpdatedAt: usr.UpdatedAt.UTC(),
	}
}

func (r userRow) user() user.User {
	return user.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.Password,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo *userRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.NewString()
	row := newUserRow(usr)
	q := `INSERT INTO users (id, email, password, created_at, updated_at)
		VALUES (:id, :email, :password, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return row.user(), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	if err := checkID(id); err != nil {
		return user.User{}, err
	}
	var row userRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM users WHERE id = $1", id); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by ID")
	}
	return row.user(), nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM users WHERE email = $1", email); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by email")
	}
	return row.user(), nil
}

func (repo *userRepository) CountUsersByEmail(ctx context.Context, email string) (int64, error) {
	var count int64
	err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users WHERE email = $1", email)
	return count, errors.Wrap(err, "counting users")
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	if err := checkID(usr.ID); err != nil {
		return user.User{}, err
	}
	var row userRow
	q := `UPDATE users SET email = $2, password = $3, updated_at = $4 WHERE id = $1 RETURNING *`
	err := repo.db.GetContext(ctx, &row, q, usr.ID, usr.Email, usr.PasswordHash, usr.UpdatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, repo.trapNoRowsErr(err, "updating user")
	}
	return row.user(), nil
}
