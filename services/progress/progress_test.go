package progress

import (
	"context"
	"testing"

	"learnhub/apperror"
	"learnhub/integrations/events"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc         *Service
	enrollments *memory.Enrollments
	records     *memory.LectureProgress
	lectures    *memory.Lectures
	courses     *memory.Courses
	users       *memory.Users
	published   *events.Recorder
}

func newFixture() *fixture {
	f := &fixture{
		enrollments: memory.NewEnrollments(),
		records:     memory.NewLectureProgress(),
		lectures:    memory.NewLectures(),
		courses:     memory.NewCourses(),
		users:       memory.NewUsers(),
		published:   &events.Recorder{},
	}
	f.lectures.LinkProgress(f.records)
	f.svc = NewService(f.enrollments, f.records, f.lectures, f.courses, f.users, f.published, logger.Nop())
	return f
}

// seedCourse creates a course with n lectures in one section and returns the lecture ids.
func (f *fixture) seedCourse(t *testing.T, title string, n int) (*models.Course, []uint) {
	t.Helper()
	ctx := context.Background()
	course := &models.Course{Title: title, Avatar: title + ".png"}
	require.NoError(t, f.courses.Create(ctx, course))
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		l := &models.Lecture{CourseID: course.ID, SectionID: 1, Title: "lecture", Position: i}
		require.NoError(t, f.lectures.Create(ctx, l))
		ids = append(ids, l.ID)
	}
	return course, ids
}

func (f *fixture) enroll(t *testing.T, userID, courseID uint) *models.UserCourse {
	t.Helper()
	uc := &models.UserCourse{UserID: userID, CourseID: courseID, Status: models.EnrollmentInProgress}
	require.NoError(t, f.enrollments.Create(context.Background(), uc))
	return uc
}

func (f *fixture) watch(t *testing.T, userID, courseID, lectureID uint, seconds, pct float64) *models.LectureProgress {
	t.Helper()
	rec, err := f.svc.RecordWatchEvent(context.Background(), WatchEvent{
		UserID: userID, CourseID: courseID, SectionID: 1, LectureID: lectureID,
		WatchedSeconds: seconds, Percentage: pct,
	})
	require.NoError(t, err)
	return rec
}

func TestRecordWatchEventHighWaterMark(t *testing.T) {
	f := newFixture()
	course, lectures := f.seedCourse(t, "go", 1)

	var rec *models.LectureProgress
	for i, pct := range []float64{30, 20, 80, 50} {
		rec = f.watch(t, 7, course.ID, lectures[0], float64(100+i), pct)
	}
	assert.Equal(t, 80.0, rec.PercentageWatched)
	assert.Equal(t, 103.0, rec.WatchedSeconds)
	assert.False(t, rec.IsCompleted)

	stored, err := f.svc.ForLecture(context.Background(), 7, lectures[0])
	require.NoError(t, err)
	assert.Equal(t, rec.ID, stored.ID)
	assert.Equal(t, 80.0, stored.PercentageWatched)

	rec = f.watch(t, 7, course.ID, lectures[0], 200, 95)
	assert.True(t, rec.IsCompleted)
	rec = f.watch(t, 7, course.ID, lectures[0], 10, 5)
	assert.True(t, rec.IsCompleted)
	assert.Equal(t, 95.0, rec.PercentageWatched)
}

func TestRecordWatchEventFillsCourseFromLecture(t *testing.T) {
	f := newFixture()
	course, lectures := f.seedCourse(t, "go", 1)

	rec, err := f.svc.RecordWatchEvent(context.Background(), WatchEvent{UserID: 1, LectureID: lectures[0], Percentage: 96})
	require.NoError(t, err)
	assert.Equal(t, course.ID, rec.CourseID)
	assert.True(t, rec.IsCompleted)

	_, err = f.svc.RecordWatchEvent(context.Background(), WatchEvent{UserID: 1, LectureID: 999, Percentage: 10})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.svc.RecordWatchEvent(context.Background(), WatchEvent{UserID: 1, LectureID: lectures[0], Percentage: 140})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestRecordWatchEventRejectsLectureOfAnotherCourse(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	course, lectures := f.seedCourse(t, "go", 1)
	_, otherLectures := f.seedCourse(t, "rust", 1)
	uc := f.enroll(t, 5, course.ID)

	f.watch(t, 5, course.ID, lectures[0], 60, 100)
	_, err := f.svc.RecordWatchEvent(ctx, WatchEvent{
		UserID: 5, CourseID: course.ID, SectionID: 1, LectureID: otherLectures[0], Percentage: 100,
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.svc.RecordWatchEvent(ctx, WatchEvent{
		UserID: 5, CourseID: course.ID, SectionID: 2, LectureID: lectures[0], Percentage: 100,
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	res, err := f.svc.ComputeProgress(ctx, uc.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Progress)
	assert.EqualValues(t, 1, res.CompletedCount)
}

func TestComputeProgressAfterLectureDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	course, lectures := f.seedCourse(t, "go", 2)
	uc := f.enroll(t, 5, course.ID)

	f.watch(t, 5, course.ID, lectures[0], 60, 100)
	f.watch(t, 5, course.ID, lectures[1], 60, 100)
	require.NoError(t, f.lectures.Delete(ctx, lectures[1]))

	res, err := f.svc.ComputeProgress(ctx, uc.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Progress)
	assert.EqualValues(t, 1, res.TotalLectures)
	assert.EqualValues(t, 1, res.CompletedCount)

	_, err = f.records.Find(ctx, 5, lectures[1])
	assert.Error(t, err)
}

func TestPercentOfIsCapped(t *testing.T) {
	assert.Equal(t, 50, percentOf(1, 2))
	assert.Equal(t, 100, percentOf(3, 2))
	assert.Equal(t, 0, percentOf(0, 0))
}

func TestComputeProgressCountsCompletedLectures(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	course, lectures := f.seedCourse(t, "go", 4)
	uc := f.enroll(t, 3, course.ID)

	f.watch(t, 3, course.ID, lectures[0], 60, 100)
	f.watch(t, 3, course.ID, lectures[1], 60, 97)
	f.watch(t, 3, course.ID, lectures[2], 60, 90)

	res, err := f.svc.ComputeProgress(ctx, uc.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Progress)
	assert.EqualValues(t, 4, res.TotalLectures)
	assert.EqualValues(t, 2, res.CompletedCount)

	stored, err := f.enrollments.GetByID(ctx, uc.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.Progress)
	assert.Equal(t, models.EnrollmentInProgress, stored.Status)
	assert.NotNil(t, stored.LastAccessAt)
	assert.Empty(t, f.published.Events)

	f.watch(t, 3, course.ID, lectures[2], 60, 100)
	f.watch(t, 3, course.ID, lectures[3], 60, 100)
	res, err = f.svc.ComputeProgress(ctx, uc.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Progress)

	stored, _ = f.enrollments.GetByID(ctx, uc.ID)
	assert.Equal(t, models.EnrollmentCompleted, stored.Status)
	assert.Equal(t, []string{events.CourseCompleted}, f.published.Types())

	// recomputing an already completed course does not announce it again
	_, err = f.svc.ComputeProgress(ctx, uc.ID)
	require.NoError(t, err)
	assert.Len(t, f.published.Events, 1)
}

func TestComputeProgressEdgeCases(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.ComputeProgress(ctx, 42)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	course, _ := f.seedCourse(t, "empty", 0)
	uc := f.enroll(t, 1, course.ID)
	res, err := f.svc.ComputeProgress(ctx, uc.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Progress)
}

func TestRecomputeAllCoursesForUserAveragesOverLectureCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	goCourse, goLectures := f.seedCourse(t, "go", 4)
	rustCourse, rustLectures := f.seedCourse(t, "rust", 2)
	f.enroll(t, 9, goCourse.ID)
	f.enroll(t, 9, rustCourse.ID)

	// (50 + 100) / 4 lectures = 37.5 -> 38
	f.watch(t, 9, goCourse.ID, goLectures[0], 1, 50)
	f.watch(t, 9, goCourse.ID, goLectures[1], 1, 100)
	// (100 + 96) / 2 = 98
	f.watch(t, 9, rustCourse.ID, rustLectures[0], 1, 100)
	f.watch(t, 9, rustCourse.ID, rustLectures[1], 1, 96)

	list, err := f.svc.RecomputeAllCoursesForUser(ctx, 9)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, 38, list[0].Progress)
	assert.Equal(t, models.EnrollmentInProgress, list[0].Status)
	require.NotNil(t, list[0].Course)
	assert.Equal(t, "go", list[0].Course.Title)
	assert.Equal(t, "go.png", list[0].Course.Avatar)

	assert.Equal(t, 98, list[1].Progress)
	assert.Equal(t, models.EnrollmentCompleted, list[1].Status)
}

func TestFormulasDivergeForSameEnrollment(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	course, lectures := f.seedCourse(t, "go", 4)
	lin := &models.User{Name: "Lin", Email: "lin@example.com"}
	require.NoError(t, f.users.Create(ctx, lin))
	uc := f.enroll(t, lin.ID, course.ID)

	f.watch(t, lin.ID, course.ID, lectures[0], 1, 100)
	f.watch(t, lin.ID, course.ID, lectures[1], 1, 60)

	counted, err := f.svc.ComputeProgress(ctx, uc.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, counted.Progress)

	averaged, err := f.svc.RecomputeAllCoursesForUser(ctx, lin.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, averaged[0].Progress)

	overview, err := f.svc.OverallProgressAcrossUsers(ctx)
	require.NoError(t, err)
	require.Len(t, overview, 1)
	assert.Equal(t, 80, overview[0].OverallProgress)
}

func TestOverallProgressAcrossUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a, aLectures := f.seedCourse(t, "a", 3)
	b, bLectures := f.seedCourse(t, "b", 3)
	c, _ := f.seedCourse(t, "c", 3)

	ann := &models.User{Name: "Ann", Email: "ann@example.com"}
	bob := &models.User{Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, f.users.Create(ctx, ann))
	require.NoError(t, f.users.Create(ctx, bob))

	f.enroll(t, ann.ID, a.ID)
	f.enroll(t, ann.ID, b.ID)
	f.enroll(t, ann.ID, c.ID)
	f.watch(t, ann.ID, a.ID, aLectures[0], 1, 100)
	f.watch(t, ann.ID, a.ID, aLectures[1], 1, 96)
	f.watch(t, ann.ID, b.ID, bLectures[0], 1, 40)

	overview, err := f.svc.OverallProgressAcrossUsers(ctx)
	require.NoError(t, err)
	require.Len(t, overview, 2)

	assert.Equal(t, UserOverview{
		ID: ann.ID, Name: "Ann", Email: "ann@example.com",
		TotalCourses: 3, Completed: 1, InProgress: 1,
		// (98 + 40) / 2
		OverallProgress: 69,
	}, overview[0])
	assert.Equal(t, UserOverview{ID: bob.ID, Name: "Bob", Email: "bob@example.com"}, overview[1])
}

func TestRollupAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	course, lectures := f.seedCourse(t, "go", 2)
	first := f.enroll(t, 1, course.ID)
	second := f.enroll(t, 2, course.ID)
	f.watch(t, 1, course.ID, lectures[0], 1, 100)
	f.watch(t, 2, course.ID, lectures[0], 1, 100)
	f.watch(t, 2, course.ID, lectures[1], 1, 100)

	n, err := f.svc.RollupAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got1, _ := f.enrollments.GetByID(ctx, first.ID)
	got2, _ := f.enrollments.GetByID(ctx, second.ID)
	assert.Equal(t, 50, got1.Progress)
	assert.Equal(t, 100, got2.Progress)
	assert.Equal(t, models.EnrollmentCompleted, got2.Status)
}

func TestLearnersOfCourse(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	course, _ := f.seedCourse(t, "go", 1)
	u := &models.User{Name: "Kim", Email: "kim@example.com"}
	require.NoError(t, f.users.Create(ctx, u))
	f.enroll(t, u.ID, course.ID)

	list, err := f.svc.LearnersOfCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].User)
	assert.Equal(t, "Kim", list[0].User.Name)
	assert.Equal(t, models.EnrollmentInProgress, list[0].Status)
}
