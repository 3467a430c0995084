package rest

import (
	"context"
	"errors"

	"github.com/ekermen/crowdcheck/internal/model"
	"github.com/jackc/pgx/v5"
)

var ErrPlaceNotFound = errors.New("place not found")

func (api *API) CreatePlaceRepo(ctx context.Context, place model.Place) (model.Place, error) {
	query := `
        INSERT INTO places (id, name, category, location, created_by)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, name, category, location, created_by, created_at, updated_at
    `
	var created model.Place
	err := api.DB.QueryRow(ctx, query,
		place.ID, place.Name, place.Category, place.Location, place.CreatedBy,
	).Scan(
		&created.ID, &created.Name, &created.Category, &created.Location,
		&created.CreatedBy, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return model.Place{}, err
	}
	return created, nil
}

func (api *API) GetPlaceByIDRepo(ctx context.Context, id string) (model.Place, error) {
	query := `
        SELECT id, name, category, location, created_by, created_at, updated_at
        FROM places
        WHERE id = $1
    `
	var place model.Place
	err := api.DB.QueryRow(ctx, query, id).Scan(
		&place.ID, &place.Name, &place.Category, &place.Location,
		&place.CreatedBy, &place.CreatedAt, &place.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return model.Place{}, ErrPlaceNotFound
	}
	return place, err
}

// ListPlacesRepo returns all places ordered by name. An empty category lists
// everything; otherwise the listing is filtered to that category.
func (api *API) ListPlacesRepo(ctx context.Context, category string) ([]model.Place, error) {
	query := `
        SELECT id, name, category, location, created_by, created_at, updated_at
        FROM places
        ORDER BY name ASC
    `
	args := []interface{}{}
	if category != "" {
		query = `
        SELECT id, name, category, location, created_by, created_at, updated_at
        FROM places
        WHERE category = $1
        ORDER BY name ASC
    `
		args = append(args, category)
	}

	rows, err := api.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var places []model.Place
	for rows.Next() {
		var place model.Place
		err := rows.Scan(
			&place.ID, &place.Name, &place.Category, &place.Location,
			&place.CreatedBy, &place.CreatedAt, &place.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		places = append(places, place)
	}
	return places, rows.Err()
}
