package commerce

import (
	"context"
	"errors"
	"fmt"

	"learnhub/apperror"
	"learnhub/integrations/events"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"
)

type EnrollmentService struct {
	enrollments repository.EnrollmentRepo
	courses     repository.CourseRepo
	categories  repository.CategoryRepo
	users       repository.UserRepo
	events      events.Publisher
	notifier    Notifier
	log         *logger.Logger
}

func NewEnrollmentService(
	enrollments repository.EnrollmentRepo,
	courses repository.CourseRepo,
	categories repository.CategoryRepo,
	users repository.UserRepo,
	publisher events.Publisher,
	notifier Notifier,
	baseLog *logger.Logger,
) *EnrollmentService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &EnrollmentService{
		enrollments: enrollments,
		courses:     courses,
		categories:  categories,
		users:       users,
		events:      publisher,
		notifier:    notifier,
		log:         baseLog.With("service", "EnrollmentService"),
	}
}

// EnrolledCourse is an enrollment with its course and the course category.
type EnrolledCourse struct {
	ID       uint             `json:"id"`
	Status   string           `json:"status"`
	Progress int              `json:"progress"`
	UserID   uint             `json:"userId"`
	CourseID uint             `json:"courseId"`
	Course   *models.Course   `json:"course"`
	Category *models.Category `json:"category"`
}

type EnrolledUser struct {
	models.UserCourse
	User *models.User `json:"user"`
}

func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uint) (*models.UserCourse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load user")
	}
	course, err := s.courses.GetByID(ctx, courseID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Course not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load course")
	}

	_, err = s.enrollments.Find(ctx, userID, courseID)
	if err == nil {
		return nil, apperror.Conflict("User already enrolled in this course")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(err, "Failed to check enrollment")
	}
	return s.create(ctx, user, course)
}

// ensure enrolls the user unless an enrollment already exists. It reports whether one was created.
func (s *EnrollmentService) ensure(ctx context.Context, user *models.User, course *models.Course) (bool, error) {
	_, err := s.enrollments.Find(ctx, user.ID, course.ID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, apperror.Internal(err, "Failed to check enrollment")
	}
	if _, err := s.create(ctx, user, course); err != nil {
		return false, err
	}
	return true, nil
}

// create writes the enrollment then bumps the course's student count. The two writes are not
// atomic; a failure in between leaves the counter one short.
func (s *EnrollmentService) create(ctx context.Context, user *models.User, course *models.Course) (*models.UserCourse, error) {
	uc := &models.UserCourse{UserID: user.ID, CourseID: course.ID, Status: models.EnrollmentInProgress}
	if err := s.enrollments.Create(ctx, uc); err != nil {
		return nil, apperror.Internal(err, "Failed to enroll")
	}
	if err := s.courses.IncrementStudentCount(ctx, course.ID, 1); err != nil {
		s.log.Error("increment student count failed", "course_id", course.ID, "error", err)
	}

	e := events.New(events.CourseEnrolled, fmt.Sprintf("%d:%d", user.ID, course.ID), uc)
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("publish enrollment failed", "user_course_id", uc.ID, "error", err)
	}
	if s.notifier != nil {
		s.notifier.SendEnrollmentEmail(user.Email, user.Name, course.Title)
	}
	return uc, nil
}

func (s *EnrollmentService) UpdateStatus(ctx context.Context, id uint, status string) (*models.UserCourse, error) {
	if status != models.EnrollmentInProgress && status != models.EnrollmentCompleted {
		return nil, apperror.Validation("status must be IN_PROGRESS or COMPLETED")
	}
	uc, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.Status = status
	if err := s.enrollments.Save(ctx, uc); err != nil {
		return nil, apperror.Internal(err, "Failed to update enrollment")
	}
	return uc, nil
}

func (s *EnrollmentService) CoursesByUser(ctx context.Context, userID uint) ([]EnrolledCourse, error) {
	list, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list enrollments")
	}
	ids := make([]uint, 0, len(list))
	for _, uc := range list {
		ids = append(ids, uc.CourseID)
	}
	courses, err := s.courses.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load courses")
	}
	byID := make(map[uint]*models.Course, len(courses))
	for i := range courses {
		byID[courses[i].ID] = &courses[i]
	}

	out := make([]EnrolledCourse, 0, len(list))
	for _, uc := range list {
		item := EnrolledCourse{ID: uc.ID, Status: uc.Status, Progress: uc.Progress, UserID: uc.UserID, CourseID: uc.CourseID}
		if c, ok := byID[uc.CourseID]; ok {
			item.Course = c
			cat, err := s.categories.GetByID(ctx, c.CategoryID)
			switch {
			case err == nil:
				item.Category = cat
			case !errors.Is(err, repository.ErrNotFound):
				return nil, apperror.Internal(err, "Failed to load category")
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *EnrollmentService) UsersByCourse(ctx context.Context, courseID uint) ([]EnrolledUser, error) {
	list, err := s.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list enrollments")
	}
	ids := make([]uint, 0, len(list))
	for _, uc := range list {
		ids = append(ids, uc.UserID)
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load users")
	}
	byID := make(map[uint]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	out := make([]EnrolledUser, 0, len(list))
	for _, uc := range list {
		out = append(out, EnrolledUser{UserCourse: uc, User: byID[uc.UserID]})
	}
	return out, nil
}

func (s *EnrollmentService) Delete(ctx context.Context, id uint) (*models.UserCourse, error) {
	uc, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.enrollments.Delete(ctx, id); err != nil {
		return nil, apperror.Internal(err, "Failed to delete enrollment")
	}
	if err := s.courses.IncrementStudentCount(ctx, uc.CourseID, -1); err != nil {
		s.log.Error("decrement student count failed", "course_id", uc.CourseID, "error", err)
	}
	return uc, nil
}

func (s *EnrollmentService) get(ctx context.Context, id uint) (*models.UserCourse, error) {
	uc, err := s.enrollments.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Enrollment not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load enrollment")
	}
	return uc, nil
}
