// Package server wires repositories, services and integrations into the HTTP app.
package server

import (
	"learnhub/config"
	"learnhub/integrations/cache"
	"learnhub/integrations/events"
	"learnhub/integrations/search"
	"learnhub/integrations/video"
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/repository"
	"learnhub/services/account"
	"learnhub/services/catalog"
	"learnhub/services/commerce"
	"learnhub/services/discussion"
	"learnhub/services/progress"
	"learnhub/services/quiz"
	"learnhub/services/review"
	"learnhub/utils"

	"gorm.io/gorm"
)

// Repos groups every store the services depend on.
type Repos struct {
	Users           repository.UserRepo
	Categories      repository.CategoryRepo
	Courses         repository.CourseRepo
	Sections        repository.SectionRepo
	Lectures        repository.LectureRepo
	Enrollments     repository.EnrollmentRepo
	LectureProgress repository.LectureProgressRepo
	Favorites       repository.FavoriteRepo
	Quizzes         repository.QuizRepo
	Forum           repository.ForumRepo
	Comments        repository.CommentRepo
	Reviews         repository.ReviewRepo
	Payments        repository.PaymentRepo
	Pricing         repository.PricingRepo
}

func GormRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Users:           repository.NewUserRepo(db, log),
		Categories:      repository.NewCategoryRepo(db, log),
		Courses:         repository.NewCourseRepo(db, log),
		Sections:        repository.NewSectionRepo(db, log),
		Lectures:        repository.NewLectureRepo(db, log),
		Enrollments:     repository.NewEnrollmentRepo(db, log),
		LectureProgress: repository.NewLectureProgressRepo(db, log),
		Favorites:       repository.NewFavoriteRepo(db, log),
		Quizzes:         repository.NewQuizRepo(db, log),
		Forum:           repository.NewForumRepo(db, log),
		Comments:        repository.NewCommentRepo(db, log),
		Reviews:         repository.NewReviewRepo(db, log),
		Payments:        repository.NewPaymentRepo(db, log),
		Pricing:         repository.NewPricingRepo(db, log),
	}
}

// Integrations are the outside systems. Nil Index disables the search index.
type Integrations struct {
	Events  events.Publisher
	Index   catalog.CourseIndex
	Deduper commerce.Deduper
	Video   video.Source
	Mailer  *utils.Mailer

	closers []func() error
}

// Close releases connections and waits for queued mail.
func (in *Integrations) Close() {
	for _, closeFn := range in.closers {
		_ = closeFn()
	}
	if in.Mailer != nil {
		in.Mailer.Wait()
	}
}

// NewIntegrations connects the optional backends named in cfg. A backend without an address,
// or one that fails to connect, falls back to its local stand-in.
func NewIntegrations(cfg *config.Config, log *logger.Logger) (*Integrations, error) {
	in := &Integrations{
		Events:  events.Noop{},
		Deduper: cache.NewMemoryDeduper(),
		Video:   video.NewHTTPSource(log),
		Mailer:  utils.NewMailer(cfg.SendgridAPIKey, cfg.EmailSender, log),
	}

	if cfg.KafkaBroker != "" {
		pub := events.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic, log)
		in.Events = pub
		in.closers = append(in.closers, pub.Close)
	}

	if cfg.ElasticURL != "" {
		index, err := search.NewElasticIndex(cfg.ElasticURL, log)
		if err != nil {
			log.Warn("search index disabled", "error", err)
		} else {
			in.Index = index
		}
	}

	if cfg.RedisAddr != "" {
		dedup, err := cache.NewRedisDeduper(cfg.RedisAddr, cfg.RedisPassword, log)
		if err != nil {
			log.Warn("redis unavailable, using in-process dedup", "error", err)
		} else {
			in.Deduper = dedup
			in.closers = append(in.closers, dedup.Close)
		}
	}

	if cfg.VideoBackend == "minio" {
		src, err := video.NewMinioSource(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, log)
		if err != nil {
			return nil, err
		}
		in.Video = src
	}

	return in, nil
}

// Services holds one instance of every domain service.
type Services struct {
	Accounts    *account.Service
	Categories  *catalog.CategoryService
	Courses     *catalog.CourseService
	Content     *catalog.ContentService
	Pricing     *catalog.PricingService
	Progress    *progress.Service
	Quizzes     *quiz.Service
	Forum       *discussion.ForumService
	Comments    *discussion.CommentService
	Reviews     *review.Service
	Enrollments *commerce.EnrollmentService
	Favorites   *commerce.FavoriteService
	Payments    *commerce.PaymentService
}

func NewServices(cfg *config.Config, r Repos, in *Integrations, log *logger.Logger) *Services {
	enrollments := commerce.NewEnrollmentService(r.Enrollments, r.Courses, r.Categories, r.Users, in.Events, in.Mailer, log)

	return &Services{
		Accounts:    account.NewService(r.Users, middleware.GenerateJWT, in.Mailer, cfg.SaltRound, log),
		Categories:  catalog.NewCategoryService(r.Categories, log),
		Courses:     catalog.NewCourseService(r.Courses, r.Categories, r.Users, in.Index, log),
		Content:     catalog.NewContentService(r.Courses, r.Sections, r.Lectures, log),
		Pricing:     catalog.NewPricingService(r.Pricing, r.Courses, log),
		Progress:    progress.NewService(r.Enrollments, r.LectureProgress, r.Lectures, r.Courses, r.Users, in.Events, log),
		Quizzes:     quiz.NewService(r.Quizzes, r.Sections, in.Events, log),
		Forum:       discussion.NewForumService(r.Forum, r.Courses, r.Users, log),
		Comments:    discussion.NewCommentService(r.Comments, r.Lectures, r.Enrollments, r.Users, log),
		Reviews:     review.NewService(r.Reviews, r.Courses, r.Users, r.Enrollments, log),
		Enrollments: enrollments,
		Favorites:   commerce.NewFavoriteService(r.Favorites, r.Courses, log),
		Payments: commerce.NewPaymentService(commerce.PaymentDeps{
			Payments:    r.Payments,
			Pricing:     r.Pricing,
			Courses:     r.Courses,
			Users:       r.Users,
			Enrollments: r.Enrollments,
			Enroll:      enrollments,
			Deduper:     in.Deduper,
			Events:      in.Events,
			Notifier:    in.Mailer,
			FrontendURL: cfg.FrontendURL,
		}, log),
	}
}
