package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"learnhub/models"
	"learnhub/repository"
)

type Categories struct {
	t *table[models.Category, *models.Category]
}

func NewCategories() *Categories {
	return &Categories{t: newTable[models.Category, *models.Category](nil)}
}

var _ repository.CategoryRepo = (*Categories)(nil)

func (r *Categories) Create(_ context.Context, c *models.Category) error {
	r.t.insert(c)
	return nil
}

func (r *Categories) Save(_ context.Context, c *models.Category) error {
	r.t.save(c)
	return nil
}

func (r *Categories) GetByID(_ context.Context, id uint) (*models.Category, error) {
	return r.t.get(id)
}

func (r *Categories) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	return r.t.first(func(c *models.Category) bool { return c.Slug == slug })
}

func (r *Categories) HasChildren(_ context.Context, id uint) (bool, error) {
	rows := r.t.filter(func(c *models.Category) bool { return c.ParentID != nil && *c.ParentID == id })
	return len(rows) > 0, nil
}

func (r *Categories) Delete(_ context.Context, id uint) error {
	return r.t.remove(id)
}

func (r *Categories) List(_ context.Context, activeOnly bool) ([]models.Category, error) {
	return r.t.filter(func(c *models.Category) bool { return !activeOnly || c.IsActive }), nil
}

func (r *Categories) ListByRootIDs(_ context.Context, rootIDs []uint) ([]models.Category, error) {
	want := map[uint]bool{}
	for _, id := range rootIDs {
		want[id] = true
	}
	return r.t.filter(func(c *models.Category) bool { return c.RootID != nil && want[*c.RootID] }), nil
}

type Courses struct {
	t *table[models.Course, *models.Course]
}

func NewCourses() *Courses {
	return &Courses{t: newTable[models.Course, *models.Course](nil)}
}

var _ repository.CourseRepo = (*Courses)(nil)

func (r *Courses) Create(_ context.Context, c *models.Course) error {
	r.t.insert(c)
	return nil
}

func (r *Courses) Save(_ context.Context, c *models.Course) error {
	r.t.save(c)
	return nil
}

func (r *Courses) GetByID(_ context.Context, id uint) (*models.Course, error) {
	return r.t.get(id)
}

func (r *Courses) GetByIDs(_ context.Context, ids []uint) ([]models.Course, error) {
	want := map[uint]bool{}
	for _, id := range ids {
		want[id] = true
	}
	return r.t.filter(func(c *models.Course) bool { return want[c.ID] }), nil
}

func (r *Courses) Delete(_ context.Context, id uint) error {
	return r.t.remove(id)
}

func (r *Courses) List(_ context.Context, f repository.CourseFilter) ([]models.Course, int64, error) {
	cats := map[uint]bool{}
	for _, id := range f.CategoryIDs {
		cats[id] = true
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	rows := r.t.filter(func(c *models.Course) bool {
		if f.TeacherID != 0 && c.TeacherID != f.TeacherID {
			return false
		}
		if len(cats) > 0 && !cats[c.CategoryID] {
			return false
		}
		if f.ExcludeID != 0 && c.ID == f.ExcludeID {
			return false
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Title+" "+c.Description+" "+c.NameTeacher), q) {
			return false
		}
		return true
	})
	// newest first, like the SQL implementation
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return paginate(rows, f.Page), int64(len(rows)), nil
}

func (r *Courses) IncrementStudentCount(_ context.Context, id uint, delta int) error {
	return r.t.update(id, func(c *models.Course) { c.StudentCount += delta })
}

func (r *Courses) UpdateFields(_ context.Context, id uint, fields map[string]interface{}) error {
	return r.t.update(id, func(c *models.Course) {
		for k, v := range fields {
			switch k {
			case "rating_average":
				c.RatingAverage = v.(float64)
			case "rating_count":
				c.RatingCount = v.(int)
			case "price_old":
				c.PriceOld = v.(float64)
			case "price_current":
				c.PriceCurrent = v.(float64)
			case "discount_percent":
				c.DiscountPercent = v.(float64)
			case "discount_tag":
				c.DiscountTag = v.(string)
			case "is_discount_active":
				c.IsDiscountActive = v.(bool)
			case "sale_start":
				c.SaleStart = v.(*time.Time)
			case "sale_end":
				c.SaleEnd = v.(*time.Time)
			}
		}
	})
}

type Lectures struct {
	t *table[models.Lecture, *models.Lecture]
	// progress, when linked, loses the watch records of deleted lectures like the gorm repo does
	progress *LectureProgress
}

// LinkProgress ties lecture deletes to the given watch-record store.
func (r *Lectures) LinkProgress(p *LectureProgress) *Lectures {
	r.progress = p
	return r
}

func NewLectures() *Lectures {
	return &Lectures{t: newTable[models.Lecture, *models.Lecture](nil)}
}

var _ repository.LectureRepo = (*Lectures)(nil)

func (r *Lectures) Create(_ context.Context, l *models.Lecture) error {
	r.t.insert(l)
	return nil
}

func (r *Lectures) Save(_ context.Context, l *models.Lecture) error {
	r.t.save(l)
	return nil
}

func (r *Lectures) GetByID(_ context.Context, id uint) (*models.Lecture, error) {
	return r.t.get(id)
}

func (r *Lectures) Delete(_ context.Context, id uint) error {
	if err := r.t.remove(id); err != nil {
		return err
	}
	r.dropProgress(map[uint]bool{id: true})
	return nil
}

func (r *Lectures) DeleteBySection(_ context.Context, sectionID uint) error {
	gone := map[uint]bool{}
	for _, l := range r.t.filter(func(l *models.Lecture) bool { return l.SectionID == sectionID }) {
		gone[l.ID] = true
	}
	r.t.removeWhere(func(l *models.Lecture) bool { return l.SectionID == sectionID })
	r.dropProgress(gone)
	return nil
}

func (r *Lectures) dropProgress(lectureIDs map[uint]bool) {
	if r.progress == nil || len(lectureIDs) == 0 {
		return
	}
	r.progress.t.removeWhere(func(p *models.LectureProgress) bool { return lectureIDs[p.LectureID] })
}

func (r *Lectures) ListBySection(_ context.Context, sectionID uint) ([]models.Lecture, error) {
	rows := r.t.filter(func(l *models.Lecture) bool { return l.SectionID == sectionID })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })
	return rows, nil
}

func (r *Lectures) CountByCourse(_ context.Context, courseID uint) (int64, error) {
	return int64(len(r.t.filter(func(l *models.Lecture) bool { return l.CourseID == courseID }))), nil
}

func (r *Lectures) CountBySection(_ context.Context, sectionID uint) (int64, error) {
	return int64(len(r.t.filter(func(l *models.Lecture) bool { return l.SectionID == sectionID }))), nil
}

func (r *Lectures) UpdatePositions(_ context.Context, sectionID uint, positions map[uint]int) error {
	for id, pos := range positions {
		_ = r.t.update(id, func(l *models.Lecture) {
			if l.SectionID == sectionID {
				l.Position = pos
			}
		})
	}
	return nil
}

type Users struct {
	t *table[models.User, *models.User]
}

func NewUsers() *Users {
	return &Users{t: newTable[models.User, *models.User](nil)}
}

var _ repository.UserRepo = (*Users)(nil)

func (r *Users) Create(_ context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	r.t.insert(u)
	return nil
}

func (r *Users) GetByID(_ context.Context, id uint) (*models.User, error) {
	return r.t.get(id)
}

func (r *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.t.first(func(u *models.User) bool { return u.Email == email })
}

func (r *Users) GetByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	want := map[uint]bool{}
	for _, id := range ids {
		want[id] = true
	}
	return r.t.filter(func(u *models.User) bool { return want[u.ID] }), nil
}

func (r *Users) List(_ context.Context, page repository.Page) ([]models.User, int64, error) {
	rows := r.t.filter(nil)
	return paginate(rows, page), int64(len(rows)), nil
}

func (r *Users) ListByRole(_ context.Context, role string) ([]models.User, error) {
	return r.t.filter(func(u *models.User) bool { return u.Role == role }), nil
}

func (r *Users) Save(_ context.Context, u *models.User) error {
	r.t.save(u)
	return nil
}

func (r *Users) Delete(_ context.Context, id uint) error {
	return r.t.remove(id)
}

func (r *Users) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	return int64(len(r.t.filter(func(u *models.User) bool { return inRange(u.CreatedAt, from, to) }))), nil
}

type Sections struct {
	t *table[models.Section, *models.Section]
}

func NewSections() *Sections {
	return &Sections{t: newTable[models.Section, *models.Section](nil)}
}

var _ repository.SectionRepo = (*Sections)(nil)

func (r *Sections) Create(_ context.Context, s *models.Section) error {
	r.t.insert(s)
	return nil
}

func (r *Sections) Save(_ context.Context, s *models.Section) error {
	r.t.save(s)
	return nil
}

func (r *Sections) GetByID(_ context.Context, id uint) (*models.Section, error) {
	return r.t.get(id)
}

func (r *Sections) Delete(_ context.Context, id uint) error {
	return r.t.remove(id)
}

func (r *Sections) ListByCourse(_ context.Context, courseID uint) ([]models.Section, error) {
	rows := r.t.filter(func(s *models.Section) bool { return s.CourseID == courseID })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })
	return rows, nil
}

func (r *Sections) CountByCourse(_ context.Context, courseID uint) (int64, error) {
	return int64(len(r.t.filter(func(s *models.Section) bool { return s.CourseID == courseID }))), nil
}

func (r *Sections) UpdatePositions(_ context.Context, courseID uint, positions map[uint]int) error {
	for id, pos := range positions {
		_ = r.t.update(id, func(s *models.Section) {
			if s.CourseID == courseID {
				s.Position = pos
			}
		})
	}
	return nil
}
