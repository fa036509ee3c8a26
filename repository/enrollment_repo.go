package repository

import (
	"context"
	"time"

	"learnhub/logger"
	"learnhub/models"

	"gorm.io/gorm"
)

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) Create(ctx context.Context, uc *models.UserCourse) error {
	return r.db.WithContext(ctx).Create(uc).Error
}

func (r *enrollmentRepo) Save(ctx context.Context, uc *models.UserCourse) error {
	return r.db.WithContext(ctx).Save(uc).Error
}

func (r *enrollmentRepo) GetByID(ctx context.Context, id uint) (*models.UserCourse, error) {
	var uc models.UserCourse
	if err := r.db.WithContext(ctx).First(&uc, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &uc, nil
}

func (r *enrollmentRepo) Find(ctx context.Context, userID, courseID uint) (*models.UserCourse, error) {
	var uc models.UserCourse
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&uc).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &uc, nil
}

func (r *enrollmentRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.UserCourse{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *enrollmentRepo) ListByUser(ctx context.Context, userID uint) ([]models.UserCourse, error) {
	var list []models.UserCourse
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id asc").Find(&list).Error
	return list, err
}

func (r *enrollmentRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.UserCourse, error) {
	var list []models.UserCourse
	err := r.db.WithContext(ctx).Where("course_id = ?", courseID).Order("id asc").Find(&list).Error
	return list, err
}

func (r *enrollmentRepo) ListUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.UserCourse{}).
		Distinct("user_id").Order("user_id asc").Pluck("user_id", &ids).Error
	return ids, err
}

func (r *enrollmentRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.UserCourse{}).
		Where("created_at BETWEEN ? AND ?", from, to).Count(&n).Error
	return n, err
}

type lectureProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLectureProgressRepo(db *gorm.DB, baseLog *logger.Logger) LectureProgressRepo {
	return &lectureProgressRepo{db: db, log: baseLog.With("repo", "LectureProgressRepo")}
}

func (r *lectureProgressRepo) Find(ctx context.Context, userID, lectureID uint) (*models.LectureProgress, error) {
	var p models.LectureProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND lecture_id = ?", userID, lectureID).
		First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *lectureProgressRepo) Create(ctx context.Context, p *models.LectureProgress) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *lectureProgressRepo) Save(ctx context.Context, p *models.LectureProgress) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *lectureProgressRepo) CountCompleted(ctx context.Context, userID, courseID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.LectureProgress{}).
		Where("user_id = ? AND course_id = ? AND is_completed = ?", userID, courseID, true).
		Count(&n).Error
	return n, err
}

func (r *lectureProgressRepo) ListByUserCourse(ctx context.Context, userID, courseID uint) ([]models.LectureProgress, error) {
	var list []models.LectureProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("id asc").Find(&list).Error
	return list, err
}

func (r *lectureProgressRepo) ListBySection(ctx context.Context, sectionID, userID uint) ([]models.LectureProgress, error) {
	var list []models.LectureProgress
	q := r.db.WithContext(ctx).Where("section_id = ?", sectionID)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	err := q.Order("id asc").Find(&list).Error
	return list, err
}

type favoriteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFavoriteRepo(db *gorm.DB, baseLog *logger.Logger) FavoriteRepo {
	return &favoriteRepo{db: db, log: baseLog.With("repo", "FavoriteRepo")}
}

func (r *favoriteRepo) Find(ctx context.Context, userID, courseID uint) (*models.FavoriteCourse, error) {
	var f models.FavoriteCourse
	err := r.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&f).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

func (r *favoriteRepo) Create(ctx context.Context, f *models.FavoriteCourse) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *favoriteRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.FavoriteCourse{}, id).Error
}

func (r *favoriteRepo) ListByUser(ctx context.Context, userID uint) ([]models.FavoriteCourse, error) {
	var list []models.FavoriteCourse
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&list).Error
	return list, err
}
