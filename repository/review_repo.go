package repository

import (
	"context"

	"learnhub/logger"
	"learnhub/models"

	"gorm.io/gorm"
)

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	return &reviewRepo{db: db, log: baseLog.With("repo", "ReviewRepo")}
}

func (r *reviewRepo) GetForm(ctx context.Context) (*models.ReviewForm, error) {
	var f models.ReviewForm
	if err := r.db.WithContext(ctx).Order("id asc").First(&f).Error; err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

func (r *reviewRepo) SaveForm(ctx context.Context, f *models.ReviewForm) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *reviewRepo) Find(ctx context.Context, courseID, userID uint) (*models.CourseReview, error) {
	var rv models.CourseReview
	err := r.db.WithContext(ctx).Where("course_id = ? AND user_id = ?", courseID, userID).First(&rv).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &rv, nil
}

func (r *reviewRepo) Save(ctx context.Context, rv *models.CourseReview) error {
	return r.db.WithContext(ctx).Save(rv).Error
}

func (r *reviewRepo) List(ctx context.Context, userID uint, page Page) ([]models.CourseReview, int64, error) {
	var (
		list  []models.CourseReview
		total int64
	)
	q := r.db.WithContext(ctx).Model(&models.CourseReview{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := page.apply(q).Order("created_at desc, id desc").Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *reviewRepo) RatingStats(ctx context.Context, courseID uint) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&models.CourseReview{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("course_id = ?", courseID).
		Scan(&row).Error
	return row.Avg, row.Count, err
}
