// Package progress rolls per-lecture watch records up into course completion.
//
// Three separate formulas live here:
//   - ComputeProgress counts completed lectures against the course's lecture count.
//   - RecomputeAllCoursesForUser sums watched percentages and divides by the lecture count.
//   - OverallProgressAcrossUsers averages watched percentages over the records that exist.
package progress

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"learnhub/apperror"
	"learnhub/integrations/events"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"
)

type Service struct {
	enrollments repository.EnrollmentRepo
	records     repository.LectureProgressRepo
	lectures    repository.LectureRepo
	courses     repository.CourseRepo
	users       repository.UserRepo
	events      events.Publisher
	log         *logger.Logger
	now         func() time.Time
}

func NewService(
	enrollments repository.EnrollmentRepo,
	records repository.LectureProgressRepo,
	lectures repository.LectureRepo,
	courses repository.CourseRepo,
	users repository.UserRepo,
	publisher events.Publisher,
	baseLog *logger.Logger,
) *Service {
	return &Service{
		enrollments: enrollments,
		records:     records,
		lectures:    lectures,
		courses:     courses,
		users:       users,
		events:      publisher,
		log:         baseLog.With("service", "ProgressService"),
		now:         time.Now,
	}
}

type WatchEvent struct {
	UserID         uint
	CourseID       uint
	SectionID      uint
	LectureID      uint
	WatchedSeconds float64
	Percentage     float64
}

type ComputeResult struct {
	Progress       int   `json:"progress"`
	TotalLectures  int64 `json:"total_lectures"`
	CompletedCount int64 `json:"completed_count"`
}

type CourseBrief struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Avatar string `json:"avatar"`
}

type CourseProgress struct {
	ID       uint         `json:"id"`
	Progress int          `json:"progress"`
	Status   string       `json:"status"`
	Course   *CourseBrief `json:"course"`
}

type UserBrief struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

type LearnerProgress struct {
	UserCourseID uint       `json:"user_course_id"`
	Progress     int        `json:"progress"`
	Status       string     `json:"status"`
	LastAccessAt *time.Time `json:"last_access_at"`
	User         *UserBrief `json:"user"`
}

type UserOverview struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Avatar          string `json:"avatar"`
	TotalCourses    int    `json:"totalCourses"`
	Completed       int    `json:"completed"`
	InProgress      int    `json:"inProgress"`
	OverallProgress int    `json:"overallProgress"`
}

// RecordWatchEvent upserts the (user, lecture) record. Watched seconds are last-write-wins,
// the percentage only ever grows.
func (s *Service) RecordWatchEvent(ctx context.Context, in WatchEvent) (*models.LectureProgress, error) {
	if in.UserID == 0 || in.LectureID == 0 {
		return nil, apperror.Validation("user_id and lecture_id are required")
	}
	if in.Percentage < 0 || in.Percentage > 100 {
		return nil, apperror.Validation("percentage must be between 0 and 100")
	}
	if in.WatchedSeconds < 0 {
		return nil, apperror.Validation("watched_seconds cannot be negative")
	}

	// course and section always come from the lecture row; ids sent by the client must agree
	lecture, err := s.lectures.GetByID(ctx, in.LectureID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Lecture not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load lecture")
	}
	if in.CourseID != 0 && in.CourseID != lecture.CourseID {
		return nil, apperror.Validation("Lecture does not belong to this course")
	}
	if in.SectionID != 0 && in.SectionID != lecture.SectionID {
		return nil, apperror.Validation("Lecture does not belong to this section")
	}
	in.CourseID = lecture.CourseID
	in.SectionID = lecture.SectionID

	rec, err := s.records.Find(ctx, in.UserID, in.LectureID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		rec = &models.LectureProgress{
			UserID:            in.UserID,
			LectureID:         in.LectureID,
			CourseID:          in.CourseID,
			SectionID:         in.SectionID,
			WatchedSeconds:    in.WatchedSeconds,
			PercentageWatched: in.Percentage,
			IsCompleted:       in.Percentage >= models.CompletionThreshold,
		}
		if err := s.records.Create(ctx, rec); err != nil {
			return nil, apperror.Internal(err, "Failed to save lecture progress")
		}
		return rec, nil
	case err != nil:
		return nil, apperror.Internal(err, "Failed to load lecture progress")
	}

	rec.WatchedSeconds = in.WatchedSeconds
	rec.PercentageWatched = math.Max(rec.PercentageWatched, in.Percentage)
	rec.IsCompleted = rec.PercentageWatched >= models.CompletionThreshold
	if err := s.records.Save(ctx, rec); err != nil {
		return nil, apperror.Internal(err, "Failed to save lecture progress")
	}
	return rec, nil
}

func (s *Service) ForLecture(ctx context.Context, userID, lectureID uint) (*models.LectureProgress, error) {
	rec, err := s.records.Find(ctx, userID, lectureID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Lecture progress not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load lecture progress")
	}
	return rec, nil
}

// ForSection lists the section's records, for every learner when userID is 0.
func (s *Service) ForSection(ctx context.Context, sectionID, userID uint) ([]models.LectureProgress, error) {
	recs, err := s.records.ListBySection(ctx, sectionID, userID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list lecture progress")
	}
	return recs, nil
}

func (s *Service) ForUserCourse(ctx context.Context, userID, courseID uint) ([]models.LectureProgress, error) {
	recs, err := s.records.ListByUserCourse(ctx, userID, courseID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list lecture progress")
	}
	return recs, nil
}

// ComputeProgress sets the enrollment's progress to completed lectures over total lectures.
func (s *Service) ComputeProgress(ctx context.Context, userCourseID uint) (*ComputeResult, error) {
	uc, err := s.enrollments.GetByID(ctx, userCourseID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Enrollment not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load enrollment")
	}

	total, err := s.lectures.CountByCourse(ctx, uc.CourseID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to count lectures")
	}
	completed, err := s.records.CountCompleted(ctx, uc.UserID, uc.CourseID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to count completed lectures")
	}

	progress := percentOf(float64(completed), total)
	if err := s.apply(ctx, uc, progress); err != nil {
		return nil, err
	}
	return &ComputeResult{Progress: progress, TotalLectures: total, CompletedCount: completed}, nil
}

// RecomputeAllCoursesForUser refreshes every enrollment of the user from the sum of watched
// percentages over the course's lecture count. Unwatched lectures count as zero.
func (s *Service) RecomputeAllCoursesForUser(ctx context.Context, userID uint) ([]CourseProgress, error) {
	enrollments, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list enrollments")
	}

	out := make([]CourseProgress, 0, len(enrollments))
	for i := range enrollments {
		uc := &enrollments[i]
		recs, err := s.records.ListByUserCourse(ctx, userID, uc.CourseID)
		if err != nil {
			return nil, apperror.Internal(err, "Failed to list lecture progress")
		}
		total, err := s.lectures.CountByCourse(ctx, uc.CourseID)
		if err != nil {
			return nil, apperror.Internal(err, "Failed to count lectures")
		}

		var sum float64
		for _, r := range recs {
			sum += r.PercentageWatched
		}
		progress := min(int(math.Round(sum/float64(max(total, 1)))), 100)
		if err := s.apply(ctx, uc, progress); err != nil {
			return nil, err
		}

		item := CourseProgress{ID: uc.ID, Progress: uc.Progress, Status: uc.Status}
		course, err := s.courses.GetByID(ctx, uc.CourseID)
		switch {
		case err == nil:
			item.Course = &CourseBrief{ID: course.ID, Title: course.Title, Avatar: course.Avatar}
		case !errors.Is(err, repository.ErrNotFound):
			return nil, apperror.Internal(err, "Failed to load course")
		}
		out = append(out, item)
	}
	return out, nil
}

// OverallProgressAcrossUsers summarises every user. Each course counts only when it has
// watch records and its average is taken over those records.
func (s *Service) OverallProgressAcrossUsers(ctx context.Context) ([]UserOverview, error) {
	users, _, err := s.users.List(ctx, repository.Page{})
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list users")
	}

	out := make([]UserOverview, 0, len(users))
	for _, u := range users {
		enrollments, err := s.enrollments.ListByUser(ctx, u.ID)
		if err != nil {
			return nil, apperror.Internal(err, "Failed to list enrollments")
		}
		ov := UserOverview{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar, TotalCourses: len(enrollments)}

		var (
			total   float64
			counted int
		)
		for _, uc := range enrollments {
			recs, err := s.records.ListByUserCourse(ctx, u.ID, uc.CourseID)
			if err != nil {
				return nil, apperror.Internal(err, "Failed to list lecture progress")
			}
			if len(recs) == 0 {
				continue
			}
			var sum float64
			for _, r := range recs {
				sum += r.PercentageWatched
			}
			avg := sum / float64(len(recs))
			if avg >= models.CompletionThreshold {
				ov.Completed++
			} else {
				ov.InProgress++
			}
			total += avg
			counted++
		}
		if counted > 0 {
			ov.OverallProgress = int(math.Round(total / float64(counted)))
		}
		out = append(out, ov)
	}
	return out, nil
}

// LearnersOfCourse lists the stored progress of everyone enrolled in the course.
func (s *Service) LearnersOfCourse(ctx context.Context, courseID uint) ([]LearnerProgress, error) {
	enrollments, err := s.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list enrollments")
	}
	ids := make([]uint, 0, len(enrollments))
	for _, uc := range enrollments {
		ids = append(ids, uc.UserID)
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load users")
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]LearnerProgress, 0, len(enrollments))
	for _, uc := range enrollments {
		lp := LearnerProgress{UserCourseID: uc.ID, Progress: uc.Progress, Status: uc.Status, LastAccessAt: uc.LastAccessAt}
		if u, ok := byID[uc.UserID]; ok {
			lp.User = &UserBrief{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
		}
		out = append(out, lp)
	}
	return out, nil
}

// RollupAll recomputes every enrolled user. It keeps going past a failing user and reports
// how many succeeded.
func (s *Service) RollupAll(ctx context.Context) (int, error) {
	ids, err := s.enrollments.ListUserIDs(ctx)
	if err != nil {
		return 0, apperror.Internal(err, "Failed to list enrolled users")
	}
	var (
		done    int
		lastErr error
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, err := s.RecomputeAllCoursesForUser(ctx, id); err != nil {
			s.log.Error("rollup failed", "user_id", id, "error", err)
			lastErr = err
			continue
		}
		done++
	}
	return done, lastErr
}

// apply stores progress, status and access time, and announces a fresh completion.
func (s *Service) apply(ctx context.Context, uc *models.UserCourse, progress int) error {
	wasCompleted := uc.Status == models.EnrollmentCompleted
	now := s.now()
	uc.Progress = progress
	uc.Status = models.StatusFor(progress)
	uc.LastAccessAt = &now
	if err := s.enrollments.Save(ctx, uc); err != nil {
		return apperror.Internal(err, "Failed to update enrollment")
	}

	if !wasCompleted && uc.Status == models.EnrollmentCompleted {
		e := events.New(events.CourseCompleted, fmt.Sprintf("%d:%d", uc.UserID, uc.CourseID), map[string]interface{}{
			"user_id":   uc.UserID,
			"course_id": uc.CourseID,
			"progress":  uc.Progress,
		})
		if err := s.events.Publish(ctx, e); err != nil {
			s.log.Warn("publish completion failed", "user_course_id", uc.ID, "error", err)
		}
	}
	return nil
}

// percentOf rounds part/total*100 with total floored at 1 and the result capped at 100.
func percentOf(part float64, total int64) int {
	return min(int(math.Round(part/float64(max(total, 1))*100)), 100)
}
