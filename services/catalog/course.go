package catalog

import (
	"context"
	"errors"
	"strings"

	"learnhub/apperror"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"
)

const relatedCourseLimit = 10

// CourseIndex is the full-text index kept in step with course writes. A nil index makes
// search fall back to the database.
type CourseIndex interface {
	IndexCourse(ctx context.Context, c *models.Course) error
	RemoveCourse(ctx context.Context, id uint) error
	SearchCourses(ctx context.Context, query string, page repository.Page) ([]uint, int64, error)
}

type CourseService struct {
	courses    repository.CourseRepo
	categories repository.CategoryRepo
	users      repository.UserRepo
	index      CourseIndex
	log        *logger.Logger
}

func NewCourseService(courses repository.CourseRepo, categories repository.CategoryRepo, users repository.UserRepo, index CourseIndex, baseLog *logger.Logger) *CourseService {
	return &CourseService{
		courses:    courses,
		categories: categories,
		users:      users,
		index:      index,
		log:        baseLog.With("service", "CourseService"),
	}
}

type CourseInput struct {
	Title       string
	Description string
	Avatar      string
	CategoryID  uint
	TeacherID   uint
}

type CourseUpdate struct {
	Title       *string
	Description *string
	Avatar      *string
	CategoryID  *uint
	TeacherID   *uint
}

type CategorySummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Level    int    `json:"level"`
	ParentID *uint  `json:"parent_id"`
	RootID   *uint  `json:"root_id"`
}

// CourseView is a course with its category populated.
type CourseView struct {
	models.Course
	Category *CategorySummary `json:"category"`
}

type CoursePage struct {
	Courses []CourseView `json:"courses"`
	Total   int64        `json:"total"`
	Page    int          `json:"page"`
	Limit   int          `json:"limit"`
}

func (s *CourseService) Create(ctx context.Context, in CourseInput) (*models.Course, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperror.Validation("Course title is required")
	}
	if err := s.checkLeafCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	teacher, err := s.teacher(ctx, in.TeacherID)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Avatar:      in.Avatar,
		CategoryID:  in.CategoryID,
		TeacherID:   teacher.ID,
		NameTeacher: teacher.Name,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, apperror.Internal(err, "Failed to create course")
	}
	s.reindex(ctx, course)
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, id uint, in CourseUpdate) (*models.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperror.Validation("Course title is required")
		}
		course.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		course.Description = *in.Description
	}
	if in.Avatar != nil {
		course.Avatar = *in.Avatar
	}
	if in.CategoryID != nil && *in.CategoryID != course.CategoryID {
		if err := s.checkLeafCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		course.CategoryID = *in.CategoryID
	}
	if in.TeacherID != nil && *in.TeacherID != course.TeacherID {
		teacher, err := s.teacher(ctx, *in.TeacherID)
		if err != nil {
			return nil, err
		}
		course.TeacherID = teacher.ID
		course.NameTeacher = teacher.Name
	}

	if err := s.courses.Save(ctx, &course.Course); err != nil {
		return nil, apperror.Internal(err, "Failed to update course")
	}
	s.reindex(ctx, &course.Course)
	return &course.Course, nil
}

func (s *CourseService) Delete(ctx context.Context, id uint) error {
	err := s.courses.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Course not found")
	}
	if err != nil {
		return apperror.Internal(err, "Failed to delete course")
	}
	if s.index != nil {
		if err := s.index.RemoveCourse(ctx, id); err != nil {
			s.log.Warn("remove course from index failed", "course_id", id, "error", err)
		}
	}
	return nil
}

func (s *CourseService) Get(ctx context.Context, id uint) (*CourseView, error) {
	course, err := s.courses.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Course not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load course")
	}
	views, err := s.withCategories(ctx, []models.Course{*course})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *CourseService) List(ctx context.Context, f repository.CourseFilter) (*CoursePage, error) {
	courses, total, err := s.courses.List(ctx, f)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list courses")
	}
	views, err := s.withCategories(ctx, courses)
	if err != nil {
		return nil, err
	}
	return &CoursePage{Courses: views, Total: total, Page: f.Page.Page, Limit: f.Limit}, nil
}

// Search asks the index first and falls back to a LIKE query when there is no index or it fails.
func (s *CourseService) Search(ctx context.Context, query string, page repository.Page) (*CoursePage, error) {
	if s.index != nil && strings.TrimSpace(query) != "" {
		ids, total, err := s.index.SearchCourses(ctx, query, page)
		if err == nil {
			courses, err := s.byIDsInOrder(ctx, ids)
			if err != nil {
				return nil, err
			}
			views, err := s.withCategories(ctx, courses)
			if err != nil {
				return nil, err
			}
			return &CoursePage{Courses: views, Total: total, Page: page.Page, Limit: page.Limit}, nil
		}
		s.log.Warn("course index search failed, using database", "error", err)
	}
	return s.List(ctx, repository.CourseFilter{Page: page, Query: query})
}

// Related lists other courses whose category shares the course's root category.
func (s *CourseService) Related(ctx context.Context, id uint) ([]CourseView, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.Category == nil {
		return []CourseView{}, nil
	}
	rootID := course.Category.ID
	if course.Category.RootID != nil {
		rootID = *course.Category.RootID
	}
	family, err := s.categories.ListByRootIDs(ctx, []uint{rootID})
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load related categories")
	}
	catIDs := make([]uint, 0, len(family))
	for _, c := range family {
		catIDs = append(catIDs, c.ID)
	}
	if len(catIDs) == 0 {
		return []CourseView{}, nil
	}
	page, err := s.List(ctx, repository.CourseFilter{
		Page:        repository.Page{Page: 1, Limit: relatedCourseLimit},
		CategoryIDs: catIDs,
		ExcludeID:   id,
	})
	if err != nil {
		return nil, err
	}
	return page.Courses, nil
}

// Reindex pushes every course to the index. Used by the reindex command.
func (s *CourseService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, apperror.BadRequest("Search index is not configured")
	}
	courses, _, err := s.courses.List(ctx, repository.CourseFilter{})
	if err != nil {
		return 0, apperror.Internal(err, "Failed to list courses")
	}
	for i := range courses {
		if err := s.index.IndexCourse(ctx, &courses[i]); err != nil {
			return i, apperror.Internal(err, "Failed to index course")
		}
	}
	return len(courses), nil
}

func (s *CourseService) checkLeafCategory(ctx context.Context, categoryID uint) error {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("Category not found")
		}
		return apperror.Internal(err, "Failed to load category")
	}
	hasChildren, err := s.categories.HasChildren(ctx, categoryID)
	if err != nil {
		return apperror.Internal(err, "Failed to check category")
	}
	if hasChildren {
		return apperror.Validation("Courses can only be assigned to a leaf category")
	}
	return nil
}

func (s *CourseService) teacher(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Teacher not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load teacher")
	}
	return u, nil
}

func (s *CourseService) reindex(ctx context.Context, c *models.Course) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexCourse(ctx, c); err != nil {
		s.log.Warn("index course failed", "course_id", c.ID, "error", err)
	}
}

func (s *CourseService) byIDsInOrder(ctx context.Context, ids []uint) ([]models.Course, error) {
	if len(ids) == 0 {
		return []models.Course{}, nil
	}
	rows, err := s.courses.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load courses")
	}
	byID := make(map[uint]models.Course, len(rows))
	for _, c := range rows {
		byID[c.ID] = c
	}
	out := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		// the index may lag behind deletes
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *CourseService) withCategories(ctx context.Context, courses []models.Course) ([]CourseView, error) {
	views := make([]CourseView, len(courses))
	cache := map[uint]*CategorySummary{}
	for i, c := range courses {
		views[i].Course = c
		summary, ok := cache[c.CategoryID]
		if !ok {
			cat, err := s.categories.GetByID(ctx, c.CategoryID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
			case err != nil:
				return nil, apperror.Internal(err, "Failed to load category")
			default:
				summary = &CategorySummary{
					ID: cat.ID, Name: cat.Name, Slug: cat.Slug, Level: cat.Level,
					ParentID: cat.ParentID, RootID: cat.RootID,
				}
			}
			cache[c.CategoryID] = summary
		}
		views[i].Category = summary
	}
	return views, nil
}
