package commerce

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"learnhub/apperror"
	"learnhub/integrations/events"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"

	"github.com/jinzhu/now"
)

const (
	// SuccessCode is the gateway response code for a settled payment.
	SuccessCode = "00"

	orderPrefix = "COURSE_ORDER_"
	claimTTL    = 24 * time.Hour
)

// ReturnQuery is what the payment gateway appends to the return URL.
type ReturnQuery struct {
	ResponseCode string
	TxnRef       string
	BankCode     string
	// Amount is in minor units (x100). Zero means use the course price.
	Amount int64
}

// OrderRef identifies the course and buyer encoded in a transaction reference.
type OrderRef struct {
	CourseID  uint
	UserID    uint
	Timestamp int64
}

// ParseOrderRef decodes COURSE_ORDER_<courseId>_<userId>_<ts>.
func ParseOrderRef(ref string) (OrderRef, error) {
	if !strings.HasPrefix(ref, orderPrefix) {
		return OrderRef{}, fmt.Errorf("order ref %q: missing prefix", ref)
	}
	parts := strings.Split(strings.TrimPrefix(ref, orderPrefix), "_")
	if len(parts) != 3 {
		return OrderRef{}, fmt.Errorf("order ref %q: want 3 fields, got %d", ref, len(parts))
	}
	courseID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || courseID == 0 {
		return OrderRef{}, fmt.Errorf("order ref %q: bad course id", ref)
	}
	userID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || userID == 0 {
		return OrderRef{}, fmt.Errorf("order ref %q: bad user id", ref)
	}
	ts, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return OrderRef{}, fmt.Errorf("order ref %q: bad timestamp", ref)
	}
	return OrderRef{CourseID: uint(courseID), UserID: uint(userID), Timestamp: ts}, nil
}

func (o OrderRef) String() string {
	return fmt.Sprintf("%s%d_%d_%d", orderPrefix, o.CourseID, o.UserID, o.Timestamp)
}

type PaymentService struct {
	payments    repository.PaymentRepo
	pricing     repository.PricingRepo
	courses     repository.CourseRepo
	users       repository.UserRepo
	enrollments repository.EnrollmentRepo
	enroll      *EnrollmentService
	dedup       Deduper
	events      events.Publisher
	notifier    Notifier
	frontendURL string
	log         *logger.Logger

	now func() time.Time
}

type PaymentDeps struct {
	Payments    repository.PaymentRepo
	Pricing     repository.PricingRepo
	Courses     repository.CourseRepo
	Users       repository.UserRepo
	Enrollments repository.EnrollmentRepo
	Enroll      *EnrollmentService
	Deduper     Deduper
	Events      events.Publisher
	Notifier    Notifier
	FrontendURL string
}

func NewPaymentService(d PaymentDeps, baseLog *logger.Logger) *PaymentService {
	pub := d.Events
	if pub == nil {
		pub = events.Noop{}
	}
	return &PaymentService{
		payments:    d.Payments,
		pricing:     d.Pricing,
		courses:     d.Courses,
		users:       d.Users,
		enrollments: d.Enrollments,
		enroll:      d.Enroll,
		dedup:       d.Deduper,
		events:      pub,
		notifier:    d.Notifier,
		frontendURL: strings.TrimRight(d.FrontendURL, "/"),
		log:         baseLog.With("service", "PaymentService"),
		now:         time.Now,
	}
}

func (s *PaymentService) successURL(orderID string) string {
	return s.frontendURL + "/payment-success?orderId=" + url.QueryEscape(orderID)
}

func (s *PaymentService) failedURL() string {
	return s.frontendURL + "/payment-failed"
}

// HandleReturn settles a gateway callback and returns the URL the browser is sent to.
// A non-nil error is returned alongside the failure URL so the caller can log it.
func (s *PaymentService) HandleReturn(ctx context.Context, q ReturnQuery) (string, error) {
	if q.ResponseCode != SuccessCode {
		s.log.Info("payment not successful", "code", q.ResponseCode, "txn_ref", q.TxnRef)
		return s.failedURL(), nil
	}
	ref, err := ParseOrderRef(q.TxnRef)
	if err != nil {
		return s.failedURL(), apperror.Validation(err.Error())
	}

	claimKey := "payment:" + q.TxnRef
	claimed := false
	if s.dedup != nil {
		ok, err := s.dedup.Claim(ctx, claimKey, claimTTL)
		switch {
		case err != nil:
			// the unique order id still guards against double settlement
			s.log.Warn("payment dedup unavailable", "txn_ref", q.TxnRef, "error", err)
		case !ok:
			s.log.Info("duplicate payment callback ignored", "txn_ref", q.TxnRef)
			return s.successURL(q.TxnRef), nil
		default:
			claimed = true
		}
	}

	dest, err := s.settle(ctx, q, ref)
	if err != nil && claimed {
		if rerr := s.dedup.Release(ctx, claimKey); rerr != nil {
			s.log.Warn("payment claim not released", "txn_ref", q.TxnRef, "error", rerr)
		}
	}
	return dest, err
}

// settle records the enrollment and the payment of a verified callback.
func (s *PaymentService) settle(ctx context.Context, q ReturnQuery, ref OrderRef) (string, error) {
	if _, err := s.payments.GetByOrderID(ctx, q.TxnRef); err == nil {
		return s.successURL(q.TxnRef), nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return s.failedURL(), apperror.Internal(err, "Failed to load payment")
	}

	user, err := s.users.GetByID(ctx, ref.UserID)
	if err != nil {
		return s.failedURL(), lookupErr(err, "User not found")
	}
	course, err := s.courses.GetByID(ctx, ref.CourseID)
	if err != nil {
		return s.failedURL(), lookupErr(err, "Course not found")
	}

	if _, err := s.enroll.ensure(ctx, user, course); err != nil {
		return s.failedURL(), err
	}

	amount := course.PriceCurrent
	if q.Amount > 0 {
		amount = float64(q.Amount) / 100
	}
	payment := &models.Payment{
		OrderID:  q.TxnRef,
		UserID:   user.ID,
		CourseID: course.ID,
		Type:     "single",
		Amount:   amount,
		Status:   models.PaymentSuccess,
		BankCode: q.BankCode,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return s.failedURL(), apperror.Internal(err, "Failed to store payment")
	}

	if err := s.pricing.Increment(ctx, course.ID, "purchased_count"); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("purchased counter not updated", "course_id", course.ID, "error", err)
	}
	if err := s.events.Publish(ctx, events.New(events.PaymentSucceeded, q.TxnRef, payment)); err != nil {
		s.log.Warn("publish payment failed", "order_id", q.TxnRef, "error", err)
	}
	if s.notifier != nil {
		s.notifier.SendPaymentReceiptEmail(user.Email, user.Name, course.Title, q.TxnRef, amount)
	}

	s.log.Info("payment settled", "order_id", q.TxnRef, "user_id", user.ID, "course_id", course.ID, "amount", amount)
	return s.successURL(q.TxnRef), nil
}

func lookupErr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(msg)
	}
	return apperror.Internal(err, msg)
}

type PaymentPage struct {
	Payments []models.Payment `json:"payments"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

func (s *PaymentService) List(ctx context.Context, page repository.Page) (*PaymentPage, error) {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit <= 0 {
		page.Limit = 20
	}
	list, total, err := s.payments.List(ctx, page)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list payments")
	}
	return &PaymentPage{Payments: list, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func (s *PaymentService) Get(ctx context.Context, id uint) (*models.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Payment not found")
	}
	return p, nil
}

func (s *PaymentService) Delete(ctx context.Context, id uint) error {
	if err := s.payments.Delete(ctx, id); err != nil {
		return lookupErr(err, "Payment not found")
	}
	return nil
}

// RevenueStats summarises sales. Revenue, transaction, course and user counts honour the
// optional [From, To] window; the month comparison is always the calendar month of now
// against the one before it.
type RevenueStats struct {
	Revenue              float64 `json:"revenue"`
	TotalTransactions    int64   `json:"totalTransactions"`
	CourseSold           int64   `json:"courseSold"`
	NewUsers             int64   `json:"newUsers"`
	CurrentMonthRevenue  float64 `json:"currentMonthRevenue"`
	PreviousMonthRevenue float64 `json:"previousMonthRevenue"`
	RevenueGrowth        float64 `json:"revenueGrowth"`
}

var endOfTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

func (s *PaymentService) RevenueStats(ctx context.Context, from, to *time.Time) (*RevenueStats, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperror.Validation("to must not be before from")
	}
	out := &RevenueStats{}
	var err error
	out.Revenue, out.TotalTransactions, err = s.payments.SumSuccess(ctx, from, to)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to sum revenue")
	}

	lo, hi := time.Time{}, endOfTime
	if from != nil {
		lo = *from
	}
	if to != nil {
		hi = *to
	}
	if out.CourseSold, err = s.enrollments.CountCreatedBetween(ctx, lo, hi); err != nil {
		return nil, apperror.Internal(err, "Failed to count enrollments")
	}
	if out.NewUsers, err = s.users.CountCreatedBetween(ctx, lo, hi); err != nil {
		return nil, apperror.Internal(err, "Failed to count users")
	}

	cur := now.With(s.now())
	curStart, curEnd := cur.BeginningOfMonth(), cur.EndOfMonth()
	prev := now.With(curStart.AddDate(0, -1, 0))
	prevStart, prevEnd := prev.BeginningOfMonth(), prev.EndOfMonth()

	if out.CurrentMonthRevenue, _, err = s.payments.SumSuccess(ctx, &curStart, &curEnd); err != nil {
		return nil, apperror.Internal(err, "Failed to sum revenue")
	}
	if out.PreviousMonthRevenue, _, err = s.payments.SumSuccess(ctx, &prevStart, &prevEnd); err != nil {
		return nil, apperror.Internal(err, "Failed to sum revenue")
	}
	out.RevenueGrowth = growth(out.PreviousMonthRevenue, out.CurrentMonthRevenue)
	return out, nil
}

// growth is the percentage change from old to cur, rounded to two decimals.
// Any revenue after a month with none counts as 100.
func growth(old, cur float64) float64 {
	if old == 0 {
		if cur == 0 {
			return 0
		}
		return 100
	}
	return math.Round((cur-old)/old*10000) / 100
}
