package commerce

import (
	"context"
	"net/url"
	"testing"
	"time"

	"learnhub/apperror"
	"learnhub/integrations/cache"
	"learnhub/integrations/events"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"
	"learnhub/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	kind, to, course string
}

type fakeNotifier struct {
	sent []sentMail
}

func (n *fakeNotifier) SendEnrollmentEmail(email, _, courseTitle string) {
	n.sent = append(n.sent, sentMail{"enroll", email, courseTitle})
}

func (n *fakeNotifier) SendPaymentReceiptEmail(email, _, courseTitle, _ string, _ float64) {
	n.sent = append(n.sent, sentMail{"receipt", email, courseTitle})
}

type fixture struct {
	enrollments *memory.Enrollments
	courses     *memory.Courses
	categories  *memory.Categories
	users       *memory.Users
	payments    *memory.Payments
	pricing     *memory.Pricing
	favorites   *memory.Favorites
	published   *events.Recorder
	mail        *fakeNotifier

	enroll   *EnrollmentService
	payment  *PaymentService
	favorite *FavoriteService
}

func newFixture() *fixture {
	f := &fixture{
		enrollments: memory.NewEnrollments(),
		courses:     memory.NewCourses(),
		categories:  memory.NewCategories(),
		users:       memory.NewUsers(),
		payments:    memory.NewPayments(),
		pricing:     memory.NewPricing(),
		favorites:   memory.NewFavorites(),
		published:   &events.Recorder{},
		mail:        &fakeNotifier{},
	}
	log := logger.Nop()
	f.enroll = NewEnrollmentService(f.enrollments, f.courses, f.categories, f.users, f.published, f.mail, log)
	f.payment = NewPaymentService(PaymentDeps{
		Payments:    f.payments,
		Pricing:     f.pricing,
		Courses:     f.courses,
		Users:       f.users,
		Enrollments: f.enrollments,
		Enroll:      f.enroll,
		Deduper:     cache.NewMemoryDeduper(),
		Events:      f.published,
		Notifier:    f.mail,
		FrontendURL: "http://front.test/",
	}, log)
	f.favorite = NewFavoriteService(f.favorites, f.courses, log)
	return f
}

func (f *fixture) seed(t *testing.T) (*models.User, *models.Course) {
	t.Helper()
	ctx := context.Background()
	cat := &models.Category{Name: "Go", Slug: "go", Level: 1}
	require.NoError(t, f.categories.Create(ctx, cat))
	u := &models.User{Name: "Lan", Email: "lan@example.com", Role: models.RoleStudent}
	require.NoError(t, f.users.Create(ctx, u))
	c := &models.Course{Title: "Concurrency", CategoryID: cat.ID, TeacherID: 99, PriceCurrent: 49.5}
	require.NoError(t, f.courses.Create(ctx, c))
	return u, c
}

func (f *fixture) studentCount(t *testing.T, id uint) int {
	t.Helper()
	c, err := f.courses.GetByID(context.Background(), id)
	require.NoError(t, err)
	return c.StudentCount
}

func TestEnroll(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u, c := f.seed(t)

	uc, err := f.enroll.Enroll(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentInProgress, uc.Status)
	assert.Equal(t, 1, f.studentCount(t, c.ID))
	assert.Equal(t, []string{events.CourseEnrolled}, f.published.Types())
	assert.Equal(t, []sentMail{{"enroll", u.Email, c.Title}}, f.mail.sent)

	_, err = f.enroll.Enroll(ctx, u.ID, c.ID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, 1, f.studentCount(t, c.ID))

	_, err = f.enroll.Enroll(ctx, 404, c.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	_, err = f.enroll.Enroll(ctx, u.ID, 404)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestEnrollmentStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u, c := f.seed(t)
	uc, err := f.enroll.Enroll(ctx, u.ID, c.ID)
	require.NoError(t, err)

	_, err = f.enroll.UpdateStatus(ctx, uc.ID, "DONE")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	updated, err := f.enroll.UpdateStatus(ctx, uc.ID, models.EnrollmentCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentCompleted, updated.Status)

	_, err = f.enroll.Delete(ctx, uc.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, f.studentCount(t, c.ID))

	_, err = f.enroll.Delete(ctx, uc.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCoursesAndUsersByEnrollment(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u, c := f.seed(t)
	_, err := f.enroll.Enroll(ctx, u.ID, c.ID)
	require.NoError(t, err)

	courses, err := f.enroll.CoursesByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.NotNil(t, courses[0].Course)
	require.NotNil(t, courses[0].Category)
	assert.Equal(t, "Concurrency", courses[0].Course.Title)
	assert.Equal(t, "go", courses[0].Category.Slug)

	users, err := f.enroll.UsersByCourse(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, u.Email, users[0].User.Email)
}

func TestParseOrderRef(t *testing.T) {
	tests := []struct {
		ref  string
		want OrderRef
		ok   bool
	}{
		{"COURSE_ORDER_12_7_1717000000", OrderRef{CourseID: 12, UserID: 7, Timestamp: 1717000000}, true},
		{"ORDER_12_7_1", OrderRef{}, false},
		{"COURSE_ORDER_12_7", OrderRef{}, false},
		{"COURSE_ORDER_x_7_1", OrderRef{}, false},
		{"COURSE_ORDER_12_0_1", OrderRef{}, false},
		{"COURSE_ORDER_12_7_1_9", OrderRef{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ParseOrderRef(tt.ref)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ref, got.String())
		})
	}
}

func TestHandleReturnSettlesOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u, c := f.seed(t)
	require.NoError(t, f.pricing.Save(ctx, &models.CoursePricing{CourseID: c.ID, SalePrice: 49.5}))

	ref := OrderRef{CourseID: c.ID, UserID: u.ID, Timestamp: 1717000000}.String()
	q := ReturnQuery{ResponseCode: SuccessCode, TxnRef: ref, BankCode: "NCB"}

	dest, err := f.payment.HandleReturn(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, "http://front.test/payment-success?orderId="+url.QueryEscape(ref), dest)

	p, err := f.payments.GetByOrderID(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 49.5, p.Amount)
	assert.Equal(t, models.PaymentSuccess, p.Status)
	assert.Equal(t, "NCB", p.BankCode)

	_, err = f.enrollments.Find(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.studentCount(t, c.ID))

	sheet, err := f.pricing.GetByCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sheet.PurchasedCount)

	// gateway retries the same callback
	dest, err = f.payment.HandleReturn(ctx, q)
	require.NoError(t, err)
	assert.Contains(t, dest, "/payment-success")
	page, err := f.payment.List(ctx, repository.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 1, f.studentCount(t, c.ID))
	assert.Equal(t, []string{events.CourseEnrolled, events.PaymentSucceeded}, f.published.Types())
}

func TestHandleReturnRetryAfterFailedSettlement(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	_, c := f.seed(t)

	// the buyer's account is not visible yet when the first callback lands
	ref := OrderRef{CourseID: c.ID, UserID: 2, Timestamp: 1}.String()
	q := ReturnQuery{ResponseCode: SuccessCode, TxnRef: ref}
	dest, err := f.payment.HandleReturn(ctx, q)
	assert.Equal(t, "http://front.test/payment-failed", dest)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	buyer := &models.User{Name: "Mai", Email: "mai@example.com", Role: models.RoleStudent}
	require.NoError(t, f.users.Create(ctx, buyer))
	require.Equal(t, uint(2), buyer.ID)

	dest, err = f.payment.HandleReturn(ctx, q)
	require.NoError(t, err)
	assert.Contains(t, dest, "/payment-success")

	_, err = f.payments.GetByOrderID(ctx, ref)
	require.NoError(t, err)
	_, err = f.enrollments.Find(ctx, buyer.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.studentCount(t, c.ID))
}

func TestHandleReturnAlreadyEnrolled(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u, c := f.seed(t)
	_, err := f.enroll.Enroll(ctx, u.ID, c.ID)
	require.NoError(t, err)

	ref := OrderRef{CourseID: c.ID, UserID: u.ID, Timestamp: 1}.String()
	_, err = f.payment.HandleReturn(ctx, ReturnQuery{ResponseCode: SuccessCode, TxnRef: ref, Amount: 1000000})
	require.NoError(t, err)

	assert.Equal(t, 1, f.studentCount(t, c.ID))
	p, err := f.payments.GetByOrderID(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, p.Amount)
}

func TestHandleReturnFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u, c := f.seed(t)

	tests := []struct {
		name    string
		q       ReturnQuery
		wantErr bool
	}{
		{"declined", ReturnQuery{ResponseCode: "24", TxnRef: OrderRef{c.ID, u.ID, 1}.String()}, false},
		{"bad ref", ReturnQuery{ResponseCode: SuccessCode, TxnRef: "garbage"}, true},
		{"unknown course", ReturnQuery{ResponseCode: SuccessCode, TxnRef: OrderRef{404, u.ID, 2}.String()}, true},
		{"unknown user", ReturnQuery{ResponseCode: SuccessCode, TxnRef: OrderRef{c.ID, 404, 3}.String()}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest, err := f.payment.HandleReturn(ctx, tt.q)
			assert.Equal(t, "http://front.test/payment-failed", dest)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
	page, err := f.payment.List(ctx, repository.Page{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestPaymentGetDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := &models.Payment{OrderID: "A", UserID: 1, Amount: 5, Status: models.PaymentSuccess}
	require.NoError(t, f.payments.Create(ctx, p))

	got, err := f.payment.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.OrderID)

	require.NoError(t, f.payment.Delete(ctx, p.ID))
	_, err = f.payment.Get(ctx, p.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.True(t, apperror.Is(f.payment.Delete(ctx, p.ID), apperror.KindNotFound))
}

func TestRevenueStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	clock := time.Date(2024, 5, 15, 12, 0, 0, 0, time.Local)
	f.payment.now = func() time.Time { return clock }

	add := func(order string, amount float64, status string, at time.Time) {
		require.NoError(t, f.payments.Create(ctx, &models.Payment{
			Base: models.Base{CreatedAt: at}, OrderID: order, Amount: amount, Status: status,
		}))
	}
	add("apr-1", 100, models.PaymentSuccess, time.Date(2024, 4, 3, 9, 0, 0, 0, time.Local))
	add("may-1", 150, models.PaymentSuccess, time.Date(2024, 5, 2, 9, 0, 0, 0, time.Local))
	add("may-2", 50, models.PaymentSuccess, time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local))
	add("may-x", 999, models.PaymentFailed, time.Date(2024, 5, 11, 9, 0, 0, 0, time.Local))

	stats, err := f.payment.RevenueStats(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 300.0, stats.Revenue)
	assert.EqualValues(t, 3, stats.TotalTransactions)
	assert.Equal(t, 200.0, stats.CurrentMonthRevenue)
	assert.Equal(t, 100.0, stats.PreviousMonthRevenue)
	assert.Equal(t, 100.0, stats.RevenueGrowth)

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	stats, err = f.payment.RevenueStats(ctx, &from, nil)
	require.NoError(t, err)
	assert.Equal(t, 200.0, stats.Revenue)
	assert.EqualValues(t, 2, stats.TotalTransactions)

	to := from.Add(-time.Hour)
	_, err = f.payment.RevenueStats(ctx, &from, &to)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestGrowth(t *testing.T) {
	assert.Equal(t, 0.0, growth(0, 0))
	assert.Equal(t, 100.0, growth(0, 10))
	assert.Equal(t, -50.0, growth(200, 100))
	assert.Equal(t, 33.33, growth(300, 400))
}

func TestFavoriteToggle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u, c := f.seed(t)

	res, err := f.favorite.Toggle(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, res.IsFavorite)
	require.NotNil(t, res.Favorite)

	list, err := f.favorite.ByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.Title, list[0].Course.Title)

	res, err = f.favorite.Toggle(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, res.IsFavorite)
	assert.Nil(t, res.Favorite)

	list, err = f.favorite.ByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.favorite.Toggle(ctx, u.ID, 404)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	_, err = f.favorite.Toggle(ctx, 0, c.ID)
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
}
