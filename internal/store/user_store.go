package store

import (
	"context"
	"database/sql"

	"bankaccounts/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, role, status, visibility, name, surname, date_of_birth, country_of_origin, email, password_hash, avatar, phone_number, created_at`

type UserInput struct {
	ID           string
	Role         models.UserRole
	Status       models.UserStatus
	Visibility   models.UserVisibility
	Name         string
	Surname      string
	DateOfBirth  string
	Country      string
	Email        string
	PasswordHash string
	Avatar       string
	PhoneNumber  string
}

func (s *UserStore) Create(ctx context.Context, tx Execer, input UserInput) error {
	query := `
		INSERT INTO users (id, role, status, visibility, name, surname, date_of_birth, country_of_origin, email, password_hash, avatar, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.Role, input.Status, input.Visibility, input.Name, input.Surname,
		input.DateOfBirth, input.Country, input.Email, input.PasswordHash, input.Avatar, input.PhoneNumber,
	)
	return err
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return user, err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return user, err
}

func (s *UserStore) GetUserRole(ctx context.Context, userID string) (models.UserRole, error) {
	var role models.UserRole
	err := s.db.GetContext(ctx, &role, `SELECT role FROM users WHERE id = $1`, userID)
	return role, err
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListPage returns a page of users sorted by name. The caller validates the
// sort direction; only "ASC"/"DESC" reach this query.
func (s *UserStore) ListPage(ctx context.Context, ascending bool, limit, offset int) ([]models.User, error) {
	direction := "DESC"
	if ascending {
		direction = "ASC"
	}
	var users []models.User
	err := s.db.SelectContext(ctx, &users, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY name `+direction+`, surname `+direction+`
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Update methods report the affected row count so callers can tell a
// no-op update on a missing user apart from a successful one.
func (s *UserStore) UpdateContacts(ctx context.Context, tx Execer, userID, email, passwordHash, phoneNumber string) (int64, error) {
	return affected(tx.ExecContext(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, phone_number = $3
		WHERE id = $4
	`, email, passwordHash, phoneNumber, userID))
}

func (s *UserStore) UpdateEmail(ctx context.Context, tx Execer, userID, email string) (int64, error) {
	return affected(tx.ExecContext(ctx, `UPDATE users SET email = $1 WHERE id = $2`, email, userID))
}

func (s *UserStore) UpdatePassword(ctx context.Context, tx Execer, userID, passwordHash string) (int64, error) {
	return affected(tx.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, userID))
}

func (s *UserStore) UpdatePhoneNumber(ctx context.Context, tx Execer, userID, phoneNumber string) (int64, error) {
	return affected(tx.ExecContext(ctx, `UPDATE users SET phone_number = $1 WHERE id = $2`, phoneNumber, userID))
}

func (s *UserStore) UpdateAvatar(ctx context.Context, tx Execer, userID, avatar string) (int64, error) {
	return affected(tx.ExecContext(ctx, `UPDATE users SET avatar = $1 WHERE id = $2`, avatar, userID))
}

func (s *UserStore) UpdateRole(ctx context.Context, tx Execer, userID string, role models.UserRole) (int64, error) {
	return affected(tx.ExecContext(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, userID))
}

func (s *UserStore) UpdateStatus(ctx context.Context, tx Execer, userID string, status models.UserStatus) (int64, error) {
	return affected(tx.ExecContext(ctx, `UPDATE users SET status = $1 WHERE id = $2`, status, userID))
}

func (s *UserStore) UpdateVisibility(ctx context.Context, tx Execer, userID string, visibility models.UserVisibility) (int64, error) {
	return affected(tx.ExecContext(ctx, `UPDATE users SET visibility = $1 WHERE id = $2`, visibility, userID))
}

// Delete removes the user row; cards and messages go with it via the
// schema's ON DELETE CASCADE.
func (s *UserStore) Delete(ctx context.Context, tx Execer, userID string) (int64, error) {
	return affected(tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID))
}

func affected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
