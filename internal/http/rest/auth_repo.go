package rest

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ekermen/crowdcheck/internal/model"
	"github.com/jackc/pgx/v5"
)

var ErrUserNotFound = errors.New("user not found")

func (api *API) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	stmt := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	err := api.DB.QueryRow(ctx, stmt, email).Scan(&exists)
	if err != nil {
		log.Println("error checking email", err)
		return false, err
	}
	return exists, nil
}

func (api *API) CreateNewUserRepo(ctx context.Context, tx pgx.Tx, req model.User) error {
	stmt := `
        INSERT INTO users (
            id,
            email,
            password_hash,
            firstname,
            lastname,
            auth_provider,
            is_verified
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	var err error
	if tx != nil {
		_, err = tx.Exec(ctx, stmt, req.ID, req.Email, req.PasswordHash, req.FirstName, req.LastName, req.AuthProvider, req.IsVerified)
	} else {
		_, err = api.DB.Exec(ctx, stmt, req.ID, req.Email, req.PasswordHash, req.FirstName, req.LastName, req.AuthProvider, req.IsVerified)
	}
	if err != nil {
		log.Println("error creating new user", err)
		return err
	}
	return nil
}

func (api *API) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	stmt := `-- name: get-user-by-email
		SELECT id, email, password_hash, firstname, lastname, auth_provider, is_verified, created_at, updated_at
		FROM users WHERE email = $1`

	err := api.DB.QueryRow(ctx, stmt, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.AuthProvider,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (api *API) GetUserByID(ctx context.Context, id string) (model.User, error) {
	var user model.User
	stmt := `-- name: get-user-by-id
		SELECT id, email, password_hash, firstname, lastname, auth_provider, is_verified, created_at, updated_at
		FROM users WHERE id = $1`

	err := api.DB.QueryRow(ctx, stmt, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.AuthProvider,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (api *API) StoreVerificationCode(ctx context.Context, tx pgx.Tx, userID, email, code, tokenType string, expiresAt time.Time) error {
	stmt := `
        INSERT INTO verification_tokens (user_id, email, code, token_type, expires_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	var err error
	if tx != nil {
		_, err = tx.Exec(ctx, stmt, userID, email, code, tokenType, expiresAt)
	} else {
		_, err = api.DB.Exec(ctx, stmt, userID, email, code, tokenType, expiresAt)
	}
	if err != nil {
		log.Println("error storing verification code", err)
		return err
	}
	return nil
}

// VerifyCodeRepo consumes a pending verification code and returns the owning
// user's id.
func (api *API) VerifyCodeRepo(ctx context.Context, code, tokenType, email string) (string, error) {
	var userID string
	stmt := `
        DELETE FROM verification_tokens
        WHERE code = $1 AND token_type = $2 AND email = $3 AND expires_at > NOW()
        RETURNING user_id
    `
	err := api.DB.QueryRow(ctx, stmt, code, tokenType, email).Scan(&userID)
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (api *API) UpdateEmailVerifiedStatus(ctx context.Context, userID string) error {
	stmt := `
        UPDATE users
        SET is_verified = true, updated_at = NOW()
        WHERE id = $1
    `
	_, err := api.DB.Exec(ctx, stmt, userID)
	if err != nil {
		log.Println("error updating verified status", err)
		return err
	}
	return nil
}
