package commerce

import (
	"context"
	"errors"

	"learnhub/apperror"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"
)

type FavoriteService struct {
	favorites repository.FavoriteRepo
	courses   repository.CourseRepo
	log       *logger.Logger
}

func NewFavoriteService(favorites repository.FavoriteRepo, courses repository.CourseRepo, baseLog *logger.Logger) *FavoriteService {
	return &FavoriteService{favorites: favorites, courses: courses, log: baseLog.With("service", "FavoriteService")}
}

type ToggleResult struct {
	IsFavorite bool                   `json:"isFavorite"`
	Favorite   *models.FavoriteCourse `json:"data,omitempty"`
}

type FavoriteView struct {
	models.FavoriteCourse
	Course *models.Course `json:"course"`
}

func (s *FavoriteService) Toggle(ctx context.Context, userID, courseID uint) (*ToggleResult, error) {
	if userID == 0 || courseID == 0 {
		return nil, apperror.BadRequest("userId and courseId are required")
	}
	existing, err := s.favorites.Find(ctx, userID, courseID)
	switch {
	case err == nil:
		if err := s.favorites.Delete(ctx, existing.ID); err != nil {
			return nil, apperror.Internal(err, "Failed to remove favourite")
		}
		return &ToggleResult{IsFavorite: false}, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperror.Internal(err, "Failed to load favourite")
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Course not found")
		}
		return nil, apperror.Internal(err, "Failed to load course")
	}
	fav := &models.FavoriteCourse{UserID: userID, CourseID: courseID}
	if err := s.favorites.Create(ctx, fav); err != nil {
		return nil, apperror.Internal(err, "Failed to add favourite")
	}
	return &ToggleResult{IsFavorite: true, Favorite: fav}, nil
}

func (s *FavoriteService) ByUser(ctx context.Context, userID uint) ([]FavoriteView, error) {
	favs, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list favourites")
	}
	ids := make([]uint, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.CourseID)
	}
	courses, err := s.courses.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load courses")
	}
	byID := make(map[uint]*models.Course, len(courses))
	for i := range courses {
		byID[courses[i].ID] = &courses[i]
	}
	out := make([]FavoriteView, 0, len(favs))
	for _, f := range favs {
		out = append(out, FavoriteView{FavoriteCourse: f, Course: byID[f.CourseID]})
	}
	return out, nil
}
