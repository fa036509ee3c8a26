package repository

import (
	"context"
	"strings"

	"learnhub/logger"
	"learnhub/models"

	"gorm.io/gorm"
)

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(ctx context.Context, c *models.Course) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *courseRepo) Save(ctx context.Context, c *models.Course) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var c models.Course
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *courseRepo) GetByIDs(ctx context.Context, ids []uint) ([]models.Course, error) {
	var courses []models.Course
	if len(ids) == 0 {
		return courses, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Course{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *courseRepo) List(ctx context.Context, f CourseFilter) ([]models.Course, int64, error) {
	var (
		courses []models.Course
		total   int64
	)
	q := r.db.WithContext(ctx).Model(&models.Course{})
	if f.TeacherID != 0 {
		q = q.Where("teacher_id = ?", f.TeacherID)
	}
	if len(f.CategoryIDs) > 0 {
		q = q.Where("category_id IN ?", f.CategoryIDs)
	}
	if f.ExcludeID != 0 {
		q = q.Where("id <> ?", f.ExcludeID)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(name_teacher) LIKE ?", like, like, like)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := f.Page.apply(q).Order("id desc").Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *courseRepo) IncrementStudentCount(ctx context.Context, id uint, delta int) error {
	return r.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).
		UpdateColumn("student_count", gorm.Expr("student_count + ?", delta)).Error
}

func (r *courseRepo) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type sectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
	return &sectionRepo{db: db, log: baseLog.With("repo", "SectionRepo")}
}

func (r *sectionRepo) Create(ctx context.Context, s *models.Section) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sectionRepo) Save(ctx context.Context, s *models.Section) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *sectionRepo) GetByID(ctx context.Context, id uint) (*models.Section, error) {
	var s models.Section
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *sectionRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Section{}, id).Error
}

func (r *sectionRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Section, error) {
	var sections []models.Section
	err := r.db.WithContext(ctx).Where("course_id = ?", courseID).Order("position asc, id asc").Find(&sections).Error
	return sections, err
}

func (r *sectionRepo) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Section{}).Where("course_id = ?", courseID).Count(&n).Error
	return n, err
}

func (r *sectionRepo) UpdatePositions(ctx context.Context, courseID uint, positions map[uint]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, pos := range positions {
			if err := tx.Model(&models.Section{}).
				Where("id = ? AND course_id = ?", id, courseID).
				Update("position", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

type lectureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLectureRepo(db *gorm.DB, baseLog *logger.Logger) LectureRepo {
	return &lectureRepo{db: db, log: baseLog.With("repo", "LectureRepo")}
}

func (r *lectureRepo) Create(ctx context.Context, l *models.Lecture) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *lectureRepo) Save(ctx context.Context, l *models.Lecture) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *lectureRepo) GetByID(ctx context.Context, id uint) (*models.Lecture, error) {
	var l models.Lecture
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

// Delete removes the lecture together with every learner's watch record for it.
func (r *lectureRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Lecture{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("lecture_id = ?", id).Delete(&models.LectureProgress{}).Error
	})
}

func (r *lectureRepo) DeleteBySection(ctx context.Context, sectionID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lectureIDs := tx.Model(&models.Lecture{}).Select("id").Where("section_id = ?", sectionID)
		if err := tx.Where("lecture_id IN (?)", lectureIDs).Delete(&models.LectureProgress{}).Error; err != nil {
			return err
		}
		return tx.Where("section_id = ?", sectionID).Delete(&models.Lecture{}).Error
	})
}

func (r *lectureRepo) ListBySection(ctx context.Context, sectionID uint) ([]models.Lecture, error) {
	var lectures []models.Lecture
	err := r.db.WithContext(ctx).Where("section_id = ?", sectionID).Order("position asc, id asc").Find(&lectures).Error
	return lectures, err
}

func (r *lectureRepo) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Lecture{}).Where("course_id = ?", courseID).Count(&n).Error
	return n, err
}

func (r *lectureRepo) CountBySection(ctx context.Context, sectionID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Lecture{}).Where("section_id = ?", sectionID).Count(&n).Error
	return n, err
}

func (r *lectureRepo) UpdatePositions(ctx context.Context, sectionID uint, positions map[uint]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, pos := range positions {
			if err := tx.Model(&models.Lecture{}).
				Where("id = ? AND section_id = ?", id, sectionID).
				Update("position", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
