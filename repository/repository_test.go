package repository

import (
	"context"
	"testing"
	"time"

	"learnhub/logger"
	"learnhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory sqlite database with every table migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection, otherwise each new connection sees an empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func TestCategoryRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepo(newTestDB(t), logger.Nop())

	root := &models.Category{Name: "Dev", Slug: "dev", Level: 1, IsActive: true}
	require.NoError(t, repo.Create(ctx, root))
	root.RootID = &root.ID
	require.NoError(t, repo.Save(ctx, root))

	child := &models.Category{Name: "Go", Slug: "go", Level: 2, ParentID: &root.ID, RootID: &root.ID}
	require.NoError(t, repo.Create(ctx, child))

	has, err := repo.HasChildren(ctx, root.ID)
	require.NoError(t, err)
	assert.True(t, has)
	has, err = repo.HasChildren(ctx, child.ID)
	require.NoError(t, err)
	assert.False(t, has)

	got, err := repo.GetBySlug(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, child.ID, got.ID)

	_, err = repo.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	family, err := repo.ListByRootIDs(ctx, []uint{root.ID})
	require.NoError(t, err)
	assert.Len(t, family, 2)

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, root.ID, active[0].ID)

	require.NoError(t, repo.Delete(ctx, child.ID))
	assert.ErrorIs(t, repo.Delete(ctx, child.ID), ErrNotFound)
}

func TestCourseRepoListAndCounters(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepo(newTestDB(t), logger.Nop())

	for _, c := range []models.Course{
		{Title: "Go Basics", CategoryID: 1, TeacherID: 10, NameTeacher: "Rob"},
		{Title: "Advanced Go", CategoryID: 2, TeacherID: 10, NameTeacher: "Rob"},
		{Title: "Painting", CategoryID: 3, TeacherID: 11, NameTeacher: "Bob"},
	} {
		c := c
		require.NoError(t, repo.Create(ctx, &c))
	}

	list, total, err := repo.List(ctx, CourseFilter{Query: "go"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	list, total, err = repo.List(ctx, CourseFilter{TeacherID: 10, Page: Page{Page: 2, Limit: 1}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Go Basics", list[0].Title)

	list, _, err = repo.List(ctx, CourseFilter{CategoryIDs: []uint{1, 3}, ExcludeID: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Painting", list[0].Title)

	require.NoError(t, repo.IncrementStudentCount(ctx, 1, 1))
	require.NoError(t, repo.IncrementStudentCount(ctx, 1, 1))
	require.NoError(t, repo.IncrementStudentCount(ctx, 1, -1))
	require.NoError(t, repo.UpdateFields(ctx, 1, map[string]interface{}{"price_current": 19.5}))
	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.StudentCount)
	assert.Equal(t, 19.5, got.PriceCurrent)

	assert.ErrorIs(t, repo.UpdateFields(ctx, 99, map[string]interface{}{"title": "x"}), ErrNotFound)
}

func TestSectionPositions(t *testing.T) {
	ctx := context.Background()
	repo := NewSectionRepo(newTestDB(t), logger.Nop())

	a := &models.Section{CourseID: 1, Title: "A", Position: 0}
	b := &models.Section{CourseID: 1, Title: "B", Position: 1}
	other := &models.Section{CourseID: 2, Title: "Other", Position: 0}
	for _, s := range []*models.Section{a, b, other} {
		require.NoError(t, repo.Create(ctx, s))
	}

	// the foreign section id is ignored because it belongs to another course
	require.NoError(t, repo.UpdatePositions(ctx, 1, map[uint]int{a.ID: 1, b.ID: 0, other.ID: 5}))

	list, err := repo.ListByCourse(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].Title)
	assert.Equal(t, "A", list[1].Title)

	got, err := repo.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Position)
}

func TestQuizRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizRepo(newTestDB(t), logger.Nop())

	quiz := &models.SectionQuiz{SectionID: 1, CourseID: 1, Title: "Check", PassingPercentage: 80, Position: 1}
	require.NoError(t, repo.Create(ctx, quiz))

	q := &models.QuizQuestion{QuizID: quiz.ID, Content: "2+2?", Options: []models.QuizOption{
		{Content: "4", IsCorrect: true},
		{Content: "5"},
	}}
	require.NoError(t, repo.CreateQuestion(ctx, q))

	loaded, err := repo.GetByID(ctx, quiz.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Questions, 1)
	assert.Len(t, loaded.Questions[0].Options, 2)

	q.Content = "3+3?"
	q.Options = []models.QuizOption{{Content: "6", IsCorrect: true}, {Content: "7"}, {Content: "8"}}
	require.NoError(t, repo.ReplaceQuestion(ctx, q))
	got, err := repo.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "3+3?", got.Content)
	require.Len(t, got.Options, 3)
	assert.Equal(t, "6", got.Options[0].Content)

	first := &models.SectionQuizResult{UserID: 5, SectionID: 1, QuizID: quiz.ID, CorrectCount: 0, TotalQuestions: 1}
	require.NoError(t, repo.UpsertResult(ctx, first))
	second := &models.SectionQuizResult{UserID: 5, SectionID: 1, QuizID: quiz.ID, CorrectCount: 1, TotalQuestions: 1, Percentage: 100, IsPassed: true}
	require.NoError(t, repo.UpsertResult(ctx, second))

	results, err := repo.ListResults(ctx, 5, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsPassed)
	assert.Equal(t, 100, results[0].Percentage)

	require.NoError(t, repo.Delete(ctx, quiz.ID))
	_, err = repo.GetQuestion(ctx, q.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	results, err = repo.ListResults(ctx, 5, 1)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.ErrorIs(t, repo.Delete(ctx, quiz.ID), ErrNotFound)
}

func TestForumTopicColumns(t *testing.T) {
	ctx := context.Background()
	repo := NewForumRepo(newTestDB(t), logger.Nop())

	topic := &models.ForumTopic{UserID: 1, Title: "Help with channels", PostType: "question", Tags: []string{"go", "concurrency"}}
	require.NoError(t, repo.CreateTopic(ctx, topic))
	topic.Upvotes.Add(7)
	topic.Upvotes.Add(3)
	require.NoError(t, repo.SaveTopic(ctx, topic))

	got, err := repo.GetTopic(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 7}, got.Upvotes.Slice())
	assert.Equal(t, []string{"go", "concurrency"}, []string(got.Tags))

	require.NoError(t, repo.CreateReply(ctx, &models.ForumReply{TopicID: topic.ID, UserID: 2, Content: "use select"}))
	counts, err := repo.ReplyCounts(ctx, []uint{topic.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[topic.ID])

	list, total, err := repo.ListTopics(ctx, TopicFilter{Search: "CHANNELS", PostType: "question"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)
}

func TestPricingAndPayments(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	pricing := NewPricingRepo(db, logger.Nop())
	payments := NewPaymentRepo(db, logger.Nop())

	assert.ErrorIs(t, pricing.Increment(ctx, 1, "view_count"), ErrNotFound)
	assert.Error(t, pricing.Increment(ctx, 1, "title"))

	require.NoError(t, pricing.Save(ctx, &models.CoursePricing{CourseID: 1, BasePrice: 100, SalePrice: 80}))
	require.NoError(t, pricing.Increment(ctx, 1, "view_count"))
	require.NoError(t, pricing.Increment(ctx, 1, "purchased_count"))
	p, err := pricing.GetByCourse(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ViewCount)
	assert.Equal(t, 1, p.PurchasedCount)

	require.NoError(t, payments.Create(ctx, &models.Payment{OrderID: "A", UserID: 1, CourseID: 1, Amount: 80, Status: models.PaymentSuccess}))
	require.NoError(t, payments.Create(ctx, &models.Payment{OrderID: "B", UserID: 2, CourseID: 1, Amount: 20, Status: models.PaymentSuccess}))
	require.NoError(t, payments.Create(ctx, &models.Payment{OrderID: "C", UserID: 3, CourseID: 1, Amount: 50, Status: models.PaymentFailed}))
	assert.Error(t, payments.Create(ctx, &models.Payment{OrderID: "A", UserID: 1, CourseID: 1}))

	total, count, err := payments.SumSuccess(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, total)
	assert.EqualValues(t, 2, count)

	future := time.Now().Add(24 * time.Hour)
	total, count, err = payments.SumSuccess(ctx, &future, nil)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, count)

	got, err := payments.GetByOrderID(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, uint(2), got.UserID)
	_, err = payments.GetByOrderID(ctx, "Z")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLectureDeleteDropsWatchRecords(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	lectures := NewLectureRepo(db, logger.Nop())
	records := NewLectureProgressRepo(db, logger.Nop())

	var ids []uint
	for _, section := range []uint{1, 1, 2} {
		l := &models.Lecture{CourseID: 1, SectionID: section, Title: "lecture"}
		require.NoError(t, lectures.Create(ctx, l))
		require.NoError(t, records.Create(ctx, &models.LectureProgress{
			UserID: 9, LectureID: l.ID, CourseID: 1, SectionID: section, PercentageWatched: 100, IsCompleted: true,
		}))
		ids = append(ids, l.ID)
	}

	require.NoError(t, lectures.Delete(ctx, ids[0]))
	_, err := records.Find(ctx, 9, ids[0])
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, lectures.Delete(ctx, ids[0]), ErrNotFound)

	require.NoError(t, lectures.DeleteBySection(ctx, 1))
	n, err := records.CountCompleted(ctx, 9, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	total, err := lectures.CountByCourse(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
