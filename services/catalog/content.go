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

// ContentService manages the sections of a course and the lectures inside them.
type ContentService struct {
	courses  repository.CourseRepo
	sections repository.SectionRepo
	lectures repository.LectureRepo
	log      *logger.Logger
}

func NewContentService(courses repository.CourseRepo, sections repository.SectionRepo, lectures repository.LectureRepo, baseLog *logger.Logger) *ContentService {
	return &ContentService{
		courses:  courses,
		sections: sections,
		lectures: lectures,
		log:      baseLog.With("service", "ContentService"),
	}
}

type PositionInput struct {
	ID    uint `json:"id"`
	Order int  `json:"order"`
}

type SectionDetail struct {
	models.Section
	Lectures []models.Lecture `json:"lectures"`
}

type LectureInput struct {
	SectionID uint
	Title     string
	Video     string
	Duration  int
}

type LectureUpdate struct {
	Title    *string
	Video    *string
	Duration *int
}

func (s *ContentService) CreateSection(ctx context.Context, courseID uint, title string) (*models.Section, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.Validation("Section title is required")
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Course not found")
		}
		return nil, apperror.Internal(err, "Failed to load course")
	}
	count, err := s.sections.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to count sections")
	}
	section := &models.Section{CourseID: courseID, Title: title, Position: int(count)}
	if err := s.sections.Create(ctx, section); err != nil {
		return nil, apperror.Internal(err, "Failed to create section")
	}
	return section, nil
}

func (s *ContentService) Section(ctx context.Context, id uint) (*models.Section, error) {
	section, err := s.sections.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Section not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load section")
	}
	return section, nil
}

func (s *ContentService) SectionDetail(ctx context.Context, id uint) (*SectionDetail, error) {
	section, err := s.Section(ctx, id)
	if err != nil {
		return nil, err
	}
	lectures, err := s.lectures.ListBySection(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list lectures")
	}
	return &SectionDetail{Section: *section, Lectures: lectures}, nil
}

func (s *ContentService) SectionsByCourse(ctx context.Context, courseID uint) ([]SectionDetail, error) {
	sections, err := s.sections.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list sections")
	}
	out := make([]SectionDetail, 0, len(sections))
	for _, sec := range sections {
		lectures, err := s.lectures.ListBySection(ctx, sec.ID)
		if err != nil {
			return nil, apperror.Internal(err, "Failed to list lectures")
		}
		out = append(out, SectionDetail{Section: sec, Lectures: lectures})
	}
	return out, nil
}

func (s *ContentService) RenameSection(ctx context.Context, id uint, title string) (*models.Section, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.Validation("Section title is required")
	}
	section, err := s.Section(ctx, id)
	if err != nil {
		return nil, err
	}
	section.Title = title
	if err := s.sections.Save(ctx, section); err != nil {
		return nil, apperror.Internal(err, "Failed to update section")
	}
	return section, nil
}

// DeleteSection removes the section and every lecture in it.
func (s *ContentService) DeleteSection(ctx context.Context, id uint) error {
	if _, err := s.Section(ctx, id); err != nil {
		return err
	}
	if err := s.lectures.DeleteBySection(ctx, id); err != nil {
		return apperror.Internal(err, "Failed to delete section lectures")
	}
	if err := s.sections.Delete(ctx, id); err != nil {
		return apperror.Internal(err, "Failed to delete section")
	}
	return nil
}

func (s *ContentService) ReorderSections(ctx context.Context, courseID uint, order []PositionInput) error {
	if len(order) == 0 {
		return apperror.Validation("Order list is empty")
	}
	if err := s.sections.UpdatePositions(ctx, courseID, positions(order)); err != nil {
		return apperror.Internal(err, "Failed to reorder sections")
	}
	return nil
}

func (s *ContentService) CreateLecture(ctx context.Context, in LectureInput) (*models.Lecture, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.Validation("Lecture title is required")
	}
	section, err := s.Section(ctx, in.SectionID)
	if err != nil {
		return nil, err
	}
	count, err := s.lectures.CountBySection(ctx, section.ID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to count lectures")
	}
	lecture := &models.Lecture{
		CourseID:  section.CourseID,
		SectionID: section.ID,
		Title:     title,
		Video:     in.Video,
		Duration:  in.Duration,
		Position:  int(count),
	}
	if err := s.lectures.Create(ctx, lecture); err != nil {
		return nil, apperror.Internal(err, "Failed to create lecture")
	}
	return lecture, nil
}

func (s *ContentService) Lecture(ctx context.Context, id uint) (*models.Lecture, error) {
	lecture, err := s.lectures.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Lecture not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load lecture")
	}
	return lecture, nil
}

func (s *ContentService) LecturesBySection(ctx context.Context, sectionID uint) ([]models.Lecture, error) {
	lectures, err := s.lectures.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list lectures")
	}
	return lectures, nil
}

func (s *ContentService) UpdateLecture(ctx context.Context, id uint, in LectureUpdate) (*models.Lecture, error) {
	lecture, err := s.Lecture(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperror.Validation("Lecture title is required")
		}
		lecture.Title = strings.TrimSpace(*in.Title)
	}
	if in.Video != nil {
		lecture.Video = *in.Video
	}
	if in.Duration != nil {
		lecture.Duration = *in.Duration
	}
	if err := s.lectures.Save(ctx, lecture); err != nil {
		return nil, apperror.Internal(err, "Failed to update lecture")
	}
	return lecture, nil
}

func (s *ContentService) DeleteLecture(ctx context.Context, id uint) error {
	err := s.lectures.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Lecture not found")
	}
	if err != nil {
		return apperror.Internal(err, "Failed to delete lecture")
	}
	return nil
}

func (s *ContentService) ReorderLectures(ctx context.Context, sectionID uint, order []PositionInput) error {
	if len(order) == 0 {
		return apperror.Validation("Order list is empty")
	}
	if err := s.lectures.UpdatePositions(ctx, sectionID, positions(order)); err != nil {
		return apperror.Internal(err, "Failed to reorder lectures")
	}
	return nil
}

// LectureVideo resolves the stored video reference of a lecture for streaming.
func (s *ContentService) LectureVideo(ctx context.Context, id uint) (string, error) {
	lecture, err := s.Lecture(ctx, id)
	if err != nil {
		return "", err
	}
	if lecture.Video == "" {
		return "", apperror.New(apperror.KindInternal, "Video not found")
	}
	return lecture.Video, nil
}

func positions(order []PositionInput) map[uint]int {
	m := make(map[uint]int, len(order))
	for _, p := range order {
		m[p.ID] = p.Order
	}
	return m
}
