package repository

import (
	"context"

	"learnhub/logger"
	"learnhub/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return &quizRepo{db: db, log: baseLog.With("repo", "QuizRepo")}
}

func withQuestions(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position asc, id asc") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") })
}

func (r *quizRepo) Create(ctx context.Context, q *models.SectionQuiz) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *quizRepo) GetByID(ctx context.Context, id uint) (*models.SectionQuiz, error) {
	var q models.SectionQuiz
	if err := withQuestions(r.db.WithContext(ctx)).First(&q, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

func (r *quizRepo) ListBySection(ctx context.Context, sectionID uint) ([]models.SectionQuiz, error) {
	var list []models.SectionQuiz
	err := withQuestions(r.db.WithContext(ctx)).
		Where("section_id = ?", sectionID).
		Order("position asc, id asc").Find(&list).Error
	return list, err
}

func (r *quizRepo) CountBySection(ctx context.Context, sectionID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.SectionQuiz{}).Where("section_id = ?", sectionID).Count(&n).Error
	return n, err
}

func (r *quizRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.SectionQuiz{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		questionIDs := tx.Model(&models.QuizQuestion{}).Select("id").Where("quiz_id = ?", id)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.QuizOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&models.QuizQuestion{}).Error; err != nil {
			return err
		}
		return tx.Where("quiz_id = ?", id).Delete(&models.SectionQuizResult{}).Error
	})
}

func (r *quizRepo) CreateQuestion(ctx context.Context, q *models.QuizQuestion) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *quizRepo) GetQuestion(ctx context.Context, id uint) (*models.QuizQuestion, error) {
	var q models.QuizQuestion
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		First(&q, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

func (r *quizRepo) ReplaceQuestion(ctx context.Context, q *models.QuizQuestion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.QuizQuestion{}).Where("id = ?", q.ID).
			Updates(map[string]interface{}{"content": q.Content, "position": q.Position}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", q.ID).Delete(&models.QuizOption{}).Error; err != nil {
			return err
		}
		for i := range q.Options {
			q.Options[i].ID = 0
			q.Options[i].QuestionID = q.ID
		}
		if len(q.Options) == 0 {
			return nil
		}
		return tx.Create(&q.Options).Error
	})
}

func (r *quizRepo) DeleteQuestion(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.QuizQuestion{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("question_id = ?", id).Delete(&models.QuizOption{}).Error
	})
}

func (r *quizRepo) CountQuestions(ctx context.Context, quizID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.QuizQuestion{}).Where("quiz_id = ?", quizID).Count(&n).Error
	return n, err
}

func (r *quizRepo) UpsertResult(ctx context.Context, res *models.SectionQuizResult) error {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "section_id"}, {Name: "quiz_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"course_id", "correct_count", "total_questions", "percentage", "is_passed", "updated_at",
		}),
	}).Create(res).Error
	if err != nil {
		return err
	}
	// the returned id is unreliable across drivers when the conflict branch ran
	res.ID = 0
	return db.Where("user_id = ? AND section_id = ? AND quiz_id = ?", res.UserID, res.SectionID, res.QuizID).
		First(res).Error
}

func (r *quizRepo) ListResults(ctx context.Context, userID, sectionID uint) ([]models.SectionQuizResult, error) {
	var list []models.SectionQuizResult
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND section_id = ?", userID, sectionID).
		Order("id asc").Find(&list).Error
	return list, err
}
