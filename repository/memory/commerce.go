package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"learnhub/models"
	"learnhub/repository"
)

type Favorites struct {
	t *table[models.FavoriteCourse, *models.FavoriteCourse]
}

func NewFavorites() *Favorites {
	return &Favorites{t: newTable[models.FavoriteCourse, *models.FavoriteCourse](nil)}
}

var _ repository.FavoriteRepo = (*Favorites)(nil)

func (r *Favorites) Find(_ context.Context, userID, courseID uint) (*models.FavoriteCourse, error) {
	return r.t.first(func(f *models.FavoriteCourse) bool { return f.UserID == userID && f.CourseID == courseID })
}

func (r *Favorites) Create(_ context.Context, f *models.FavoriteCourse) error {
	r.t.insert(f)
	return nil
}

func (r *Favorites) Delete(_ context.Context, id uint) error {
	return r.t.remove(id)
}

func (r *Favorites) ListByUser(_ context.Context, userID uint) ([]models.FavoriteCourse, error) {
	return r.t.filter(func(f *models.FavoriteCourse) bool { return f.UserID == userID }), nil
}

type Reviews struct {
	mu   sync.Mutex
	form *models.ReviewForm
	t    *table[models.CourseReview, *models.CourseReview]
}

func NewReviews() *Reviews {
	return &Reviews{t: newTable[models.CourseReview, *models.CourseReview](func(rv models.CourseReview) models.CourseReview {
		rv.Answers = append(rv.Answers[:0:0], rv.Answers...)
		return rv
	})}
}

var _ repository.ReviewRepo = (*Reviews)(nil)

func (r *Reviews) GetForm(_ context.Context) (*models.ReviewForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.form == nil {
		return nil, repository.ErrNotFound
	}
	f := *r.form
	f.Questions = append(f.Questions[:0:0], f.Questions...)
	return &f, nil
}

func (r *Reviews) SaveForm(_ context.Context, f *models.ReviewForm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == 0 {
		f.ID = 1
	}
	stored := *f
	stored.Questions = append(f.Questions[:0:0], f.Questions...)
	r.form = &stored
	return nil
}

func (r *Reviews) Find(_ context.Context, courseID, userID uint) (*models.CourseReview, error) {
	return r.t.first(func(rv *models.CourseReview) bool { return rv.CourseID == courseID && rv.UserID == userID })
}

func (r *Reviews) Save(_ context.Context, rv *models.CourseReview) error {
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = time.Now()
	}
	r.t.save(rv)
	return nil
}

func (r *Reviews) List(_ context.Context, userID uint, page repository.Page) ([]models.CourseReview, int64, error) {
	rows := r.t.filter(func(rv *models.CourseReview) bool { return userID == 0 || rv.UserID == userID })
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return paginate(rows, page), int64(len(rows)), nil
}

func (r *Reviews) RatingStats(_ context.Context, courseID uint) (float64, int64, error) {
	rows := r.t.filter(func(rv *models.CourseReview) bool { return rv.CourseID == courseID })
	if len(rows) == 0 {
		return 0, 0, nil
	}
	sum := 0
	for _, rv := range rows {
		sum += rv.Rating
	}
	return float64(sum) / float64(len(rows)), int64(len(rows)), nil
}

type Pricing struct {
	t *table[models.CoursePricing, *models.CoursePricing]
}

func NewPricing() *Pricing {
	return &Pricing{t: newTable[models.CoursePricing, *models.CoursePricing](nil)}
}

var _ repository.PricingRepo = (*Pricing)(nil)

func (r *Pricing) GetByID(_ context.Context, id uint) (*models.CoursePricing, error) {
	return r.t.get(id)
}

func (r *Pricing) GetByCourse(_ context.Context, courseID uint) (*models.CoursePricing, error) {
	return r.t.first(func(p *models.CoursePricing) bool { return p.CourseID == courseID })
}

func (r *Pricing) Save(_ context.Context, p *models.CoursePricing) error {
	r.t.save(p)
	return nil
}

func (r *Pricing) List(_ context.Context) ([]models.CoursePricing, error) {
	return r.t.filter(nil), nil
}

func (r *Pricing) Increment(_ context.Context, courseID uint, column string) error {
	p, err := r.t.first(func(p *models.CoursePricing) bool { return p.CourseID == courseID })
	if err != nil {
		return err
	}
	switch column {
	case "view_count":
		return r.t.update(p.ID, func(p *models.CoursePricing) { p.ViewCount++ })
	case "purchased_count":
		return r.t.update(p.ID, func(p *models.CoursePricing) { p.PurchasedCount++ })
	default:
		return fmt.Errorf("pricing: unknown counter %q", column)
	}
}

type Payments struct {
	t *table[models.Payment, *models.Payment]
}

func NewPayments() *Payments {
	return &Payments{t: newTable[models.Payment, *models.Payment](nil)}
}

var _ repository.PaymentRepo = (*Payments)(nil)

func (r *Payments) Create(_ context.Context, p *models.Payment) error {
	if _, err := r.t.first(func(x *models.Payment) bool { return x.OrderID == p.OrderID }); err == nil {
		return fmt.Errorf("duplicate order_id %q", p.OrderID)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.t.insert(p)
	return nil
}

func (r *Payments) GetByID(_ context.Context, id uint) (*models.Payment, error) {
	return r.t.get(id)
}

func (r *Payments) GetByOrderID(_ context.Context, orderID string) (*models.Payment, error) {
	return r.t.first(func(p *models.Payment) bool { return p.OrderID == orderID })
}

func (r *Payments) Delete(_ context.Context, id uint) error {
	return r.t.remove(id)
}

func (r *Payments) List(_ context.Context, page repository.Page) ([]models.Payment, int64, error) {
	rows := r.t.filter(nil)
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return paginate(rows, page), int64(len(rows)), nil
}

func (r *Payments) SumSuccess(_ context.Context, from, to *time.Time) (float64, int64, error) {
	var (
		total float64
		count int64
	)
	for _, p := range r.t.filter(func(p *models.Payment) bool { return p.Status == models.PaymentSuccess }) {
		if from != nil && p.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && p.CreatedAt.After(*to) {
			continue
		}
		total += p.Amount
		count++
	}
	return total, count, nil
}
