package discussion

import (
	"context"

	"learnhub/apperror"
	"learnhub/repository"
)

type Author struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func loadAuthors(ctx context.Context, users repository.UserRepo, ids []uint) (map[uint]*Author, error) {
	out := make(map[uint]*Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load authors")
	}
	for _, u := range rows {
		out[u.ID] = &Author{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	}
	return out, nil
}
