package market

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameTaken  = errors.New("username already exists")
	ErrBadCredentials = errors.New("invalid username or password")
)

type UserRepo struct{ DB *pgxpool.Pool }

type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (r *UserRepo) Create(ctx context.Context, in UserInput) (*User, error) {
	var exists bool
	if err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, in.Username).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var u User
	err = r.DB.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, role, full_name, email, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING user_id, username, role, full_name, email, COALESCE(phone, ''), created_at`,
		in.Username, string(hash), in.Role, in.FullName, in.Email, nilIfEmpty(in.Phone),
	).Scan(&u.ID, &u.Username, &u.Role, &u.FullName, &u.Email, &u.Phone, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (*User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT user_id, username, role, full_name, email, COALESCE(phone, ''), created_at
		FROM users WHERE user_id = $1`, userID,
	).Scan(&u.ID, &u.Username, &u.Role, &u.FullName, &u.Email, &u.Phone, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Authenticate checks the password against the stored bcrypt hash. Token
// issuance is out of scope; callers only learn who the user is.
func (r *UserRepo) Authenticate(ctx context.Context, username, password string) (*User, error) {
	var (
		u    User
		hash string
	)
	err := r.DB.QueryRow(ctx, `
		SELECT user_id, username, password_hash, role, full_name, email, COALESCE(phone, ''), created_at
		FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &hash, &u.Role, &u.FullName, &u.Email, &u.Phone, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return &u, nil
}
