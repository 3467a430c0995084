package rest

import (
	"context"
)

func (api *API) UpdateUserRepo(ctx context.Context, userID string, firstName, lastName *string) error {
	stmt := `
        UPDATE users
        SET firstname = COALESCE($2, firstname),
            lastname = COALESCE($3, lastname),
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := api.DB.Exec(ctx, stmt, userID, firstName, lastName)
	if err != nil {
		return err
	}
	return nil
}

func (api *API) DeleteUserRepo(ctx context.Context, userID string) error {
	stmt := `DELETE FROM users WHERE id = $1`

	_, err := api.DB.Exec(ctx, stmt, userID)
	if err != nil {
		return err
	}
	return nil
}
