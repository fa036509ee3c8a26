package memory

import (
	"context"
	"sync"
	"time"

	"learnhub/models"
	"learnhub/repository"
)

type Enrollments struct {
	t *table[models.UserCourse, *models.UserCourse]
}

func NewEnrollments() *Enrollments {
	return &Enrollments{t: newTable[models.UserCourse, *models.UserCourse](nil)}
}

var _ repository.EnrollmentRepo = (*Enrollments)(nil)

func (r *Enrollments) Create(_ context.Context, uc *models.UserCourse) error {
	if uc.CreatedAt.IsZero() {
		uc.CreatedAt = time.Now()
	}
	r.t.insert(uc)
	return nil
}

func (r *Enrollments) Save(_ context.Context, uc *models.UserCourse) error {
	r.t.save(uc)
	return nil
}

func (r *Enrollments) GetByID(_ context.Context, id uint) (*models.UserCourse, error) {
	return r.t.get(id)
}

func (r *Enrollments) Find(_ context.Context, userID, courseID uint) (*models.UserCourse, error) {
	return r.t.first(func(uc *models.UserCourse) bool { return uc.UserID == userID && uc.CourseID == courseID })
}

func (r *Enrollments) Delete(_ context.Context, id uint) error {
	return r.t.remove(id)
}

func (r *Enrollments) ListByUser(_ context.Context, userID uint) ([]models.UserCourse, error) {
	return r.t.filter(func(uc *models.UserCourse) bool { return uc.UserID == userID }), nil
}

func (r *Enrollments) ListByCourse(_ context.Context, courseID uint) ([]models.UserCourse, error) {
	return r.t.filter(func(uc *models.UserCourse) bool { return uc.CourseID == courseID }), nil
}

func (r *Enrollments) ListUserIDs(_ context.Context) ([]uint, error) {
	seen := map[uint]bool{}
	var ids []uint
	for _, uc := range r.t.filter(nil) {
		if !seen[uc.UserID] {
			seen[uc.UserID] = true
			ids = append(ids, uc.UserID)
		}
	}
	return ids, nil
}

func (r *Enrollments) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	return int64(len(r.t.filter(func(uc *models.UserCourse) bool { return inRange(uc.CreatedAt, from, to) }))), nil
}

type LectureProgress struct {
	t *table[models.LectureProgress, *models.LectureProgress]
}

func NewLectureProgress() *LectureProgress {
	return &LectureProgress{t: newTable[models.LectureProgress, *models.LectureProgress](nil)}
}

var _ repository.LectureProgressRepo = (*LectureProgress)(nil)

func (r *LectureProgress) Find(_ context.Context, userID, lectureID uint) (*models.LectureProgress, error) {
	return r.t.first(func(p *models.LectureProgress) bool { return p.UserID == userID && p.LectureID == lectureID })
}

func (r *LectureProgress) Create(_ context.Context, p *models.LectureProgress) error {
	r.t.insert(p)
	return nil
}

func (r *LectureProgress) Save(_ context.Context, p *models.LectureProgress) error {
	r.t.save(p)
	return nil
}

func (r *LectureProgress) CountCompleted(_ context.Context, userID, courseID uint) (int64, error) {
	rows := r.t.filter(func(p *models.LectureProgress) bool {
		return p.UserID == userID && p.CourseID == courseID && p.IsCompleted
	})
	return int64(len(rows)), nil
}

func (r *LectureProgress) ListByUserCourse(_ context.Context, userID, courseID uint) ([]models.LectureProgress, error) {
	return r.t.filter(func(p *models.LectureProgress) bool { return p.UserID == userID && p.CourseID == courseID }), nil
}

func (r *LectureProgress) ListBySection(_ context.Context, sectionID, userID uint) ([]models.LectureProgress, error) {
	return r.t.filter(func(p *models.LectureProgress) bool {
		return p.SectionID == sectionID && (userID == 0 || p.UserID == userID)
	}), nil
}

// Quizzes keeps questions and options nested inside the quiz row.
type Quizzes struct {
	quizzes *table[models.SectionQuiz, *models.SectionQuiz]
	results *table[models.SectionQuizResult, *models.SectionQuizResult]
	mu      sync.Mutex
	nextQID uint
	nextOID uint
}

func cloneQuiz(q models.SectionQuiz) models.SectionQuiz {
	qs := make([]models.QuizQuestion, len(q.Questions))
	for i, question := range q.Questions {
		question.Options = append([]models.QuizOption(nil), question.Options...)
		qs[i] = question
	}
	q.Questions = qs
	return q
}

func NewQuizzes() *Quizzes {
	return &Quizzes{
		quizzes: newTable[models.SectionQuiz, *models.SectionQuiz](cloneQuiz),
		results: newTable[models.SectionQuizResult, *models.SectionQuizResult](nil),
	}
}

var _ repository.QuizRepo = (*Quizzes)(nil)

func (r *Quizzes) stamp(q *models.QuizQuestion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextQID++
	q.ID = r.nextQID
	for i := range q.Options {
		r.nextOID++
		q.Options[i].ID = r.nextOID
		q.Options[i].QuestionID = q.ID
	}
}

func (r *Quizzes) Create(_ context.Context, q *models.SectionQuiz) error {
	for i := range q.Questions {
		r.stamp(&q.Questions[i])
	}
	r.quizzes.insert(q)
	for i := range q.Questions {
		q.Questions[i].QuizID = q.ID
	}
	return r.quizzes.update(q.ID, func(stored *models.SectionQuiz) {
		for i := range stored.Questions {
			stored.Questions[i].QuizID = q.ID
		}
	})
}

func (r *Quizzes) GetByID(_ context.Context, id uint) (*models.SectionQuiz, error) {
	return r.quizzes.get(id)
}

func (r *Quizzes) ListBySection(_ context.Context, sectionID uint) ([]models.SectionQuiz, error) {
	return r.quizzes.filter(func(q *models.SectionQuiz) bool { return q.SectionID == sectionID }), nil
}

func (r *Quizzes) CountBySection(_ context.Context, sectionID uint) (int64, error) {
	rows, _ := r.ListBySection(context.Background(), sectionID)
	return int64(len(rows)), nil
}

func (r *Quizzes) Delete(_ context.Context, id uint) error {
	if err := r.quizzes.remove(id); err != nil {
		return err
	}
	r.results.removeWhere(func(res *models.SectionQuizResult) bool { return res.QuizID == id })
	return nil
}

func (r *Quizzes) CreateQuestion(_ context.Context, q *models.QuizQuestion) error {
	r.stamp(q)
	stored := cloneQuiz(models.SectionQuiz{Questions: []models.QuizQuestion{*q}}).Questions[0]
	return r.quizzes.update(q.QuizID, func(quiz *models.SectionQuiz) {
		quiz.Questions = append(quiz.Questions, stored)
	})
}

func (r *Quizzes) findQuestion(id uint) (*models.SectionQuiz, int, error) {
	for _, quiz := range r.quizzes.filter(nil) {
		for i, q := range quiz.Questions {
			if q.ID == id {
				quiz := quiz
				return &quiz, i, nil
			}
		}
	}
	return nil, 0, repository.ErrNotFound
}

func (r *Quizzes) GetQuestion(_ context.Context, id uint) (*models.QuizQuestion, error) {
	quiz, i, err := r.findQuestion(id)
	if err != nil {
		return nil, err
	}
	q := quiz.Questions[i]
	return &q, nil
}

func (r *Quizzes) ReplaceQuestion(_ context.Context, q *models.QuizQuestion) error {
	quiz, i, err := r.findQuestion(q.ID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	for j := range q.Options {
		r.nextOID++
		q.Options[j].ID = r.nextOID
		q.Options[j].QuestionID = q.ID
	}
	r.mu.Unlock()
	q.QuizID = quiz.ID
	replacement := *q
	replacement.Options = append([]models.QuizOption(nil), q.Options...)
	return r.quizzes.update(quiz.ID, func(stored *models.SectionQuiz) {
		stored.Questions[i] = replacement
	})
}

func (r *Quizzes) DeleteQuestion(_ context.Context, id uint) error {
	quiz, i, err := r.findQuestion(id)
	if err != nil {
		return err
	}
	return r.quizzes.update(quiz.ID, func(stored *models.SectionQuiz) {
		stored.Questions = append(stored.Questions[:i:i], stored.Questions[i+1:]...)
	})
}

func (r *Quizzes) CountQuestions(_ context.Context, quizID uint) (int64, error) {
	quiz, err := r.quizzes.get(quizID)
	if err != nil {
		return 0, nil
	}
	return int64(len(quiz.Questions)), nil
}

func (r *Quizzes) UpsertResult(_ context.Context, res *models.SectionQuizResult) error {
	existing, err := r.results.first(func(s *models.SectionQuizResult) bool {
		return s.UserID == res.UserID && s.SectionID == res.SectionID && s.QuizID == res.QuizID
	})
	if err == nil {
		res.ID = existing.ID
		res.CreatedAt = existing.CreatedAt
	} else {
		res.ID = 0
		res.CreatedAt = time.Now()
	}
	res.UpdatedAt = time.Now()
	r.results.save(res)
	return nil
}

func (r *Quizzes) ListResults(_ context.Context, userID, sectionID uint) ([]models.SectionQuizResult, error) {
	return r.results.filter(func(s *models.SectionQuizResult) bool {
		return s.UserID == userID && s.SectionID == sectionID
	}), nil
}
