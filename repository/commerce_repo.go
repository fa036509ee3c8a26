package repository

import (
	"context"
	"fmt"
	"time"

	"learnhub/logger"
	"learnhub/models"

	"gorm.io/gorm"
)

type pricingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPricingRepo(db *gorm.DB, baseLog *logger.Logger) PricingRepo {
	return &pricingRepo{db: db, log: baseLog.With("repo", "PricingRepo")}
}

func (r *pricingRepo) GetByID(ctx context.Context, id uint) (*models.CoursePricing, error) {
	var p models.CoursePricing
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *pricingRepo) GetByCourse(ctx context.Context, courseID uint) (*models.CoursePricing, error) {
	var p models.CoursePricing
	if err := r.db.WithContext(ctx).Where("course_id = ?", courseID).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *pricingRepo) Save(ctx context.Context, p *models.CoursePricing) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *pricingRepo) List(ctx context.Context) ([]models.CoursePricing, error) {
	var list []models.CoursePricing
	err := r.db.WithContext(ctx).Order("course_id asc").Find(&list).Error
	return list, err
}

var pricingCounters = map[string]bool{"view_count": true, "purchased_count": true}

func (r *pricingRepo) Increment(ctx context.Context, courseID uint, column string) error {
	if !pricingCounters[column] {
		return fmt.Errorf("pricing: unknown counter %q", column)
	}
	res := r.db.WithContext(ctx).Model(&models.CoursePricing{}).
		Where("course_id = ?", courseID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type paymentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaymentRepo(db *gorm.DB, baseLog *logger.Logger) PaymentRepo {
	return &paymentRepo{db: db, log: baseLog.With("repo", "PaymentRepo")}
}

func (r *paymentRepo) Create(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paymentRepo) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *paymentRepo) GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *paymentRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Payment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *paymentRepo) List(ctx context.Context, page Page) ([]models.Payment, int64, error) {
	var (
		list  []models.Payment
		total int64
	)
	q := r.db.WithContext(ctx).Model(&models.Payment{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := page.apply(q).Order("created_at desc, id desc").Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *paymentRepo) SumSuccess(ctx context.Context, from, to *time.Time) (float64, int64, error) {
	var row struct {
		Total float64
		Count int64
	}
	q := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("status = ?", models.PaymentSuccess)
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	err := q.Scan(&row).Error
	return row.Total, row.Count, err
}
