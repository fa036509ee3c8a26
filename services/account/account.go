// Package account handles sign up, sign in and user profiles.
package account

import (
	"context"
	"errors"
	"strings"

	"learnhub/apperror"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs an access token for a user.
type TokenIssuer func(userID uint, name, role, email string) (string, error)

// Welcomer greets new accounts. Delivery is asynchronous.
type Welcomer interface {
	SendWelcomeEmail(email, name string)
}

type Service struct {
	users     repository.UserRepo
	issue     TokenIssuer
	welcome   Welcomer
	saltRound int
	log       *logger.Logger
}

func NewService(users repository.UserRepo, issue TokenIssuer, welcome Welcomer, saltRound int, baseLog *logger.Logger) *Service {
	if saltRound < bcrypt.MinCost || saltRound > bcrypt.MaxCost {
		saltRound = bcrypt.DefaultCost
	}
	return &Service{
		users:     users,
		issue:     issue,
		welcome:   welcome,
		saltRound: saltRound,
		log:       baseLog.With("service", "AccountService"),
	}
}

type SignUpInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, apperror.BadRequest("Email and password are required!")
	}
	role := in.Role
	switch role {
	case "":
		role = models.RoleStudent
	case models.RoleStudent, models.RoleTeacher:
	default:
		return nil, apperror.Validation("role must be student or teacher")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("Email is already registered!")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(err, "Failed to check email")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.saltRound)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to process your request!")
	}
	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Phone:    strings.TrimSpace(in.Phone),
		Role:     role,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperror.Internal(err, "Failed to Signup user!")
	}
	s.log.Info("user registered", "user_id", user.ID, "role", role)

	if s.welcome != nil {
		s.welcome.SendWelcomeEmail(user.Email, user.Name)
	}
	return user, nil
}

type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Unauthorized("Invalid email or password!")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.Unauthorized("Invalid email or password!")
	}
	token, err := s.issue(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to generate token!")
	}
	return &Session{Token: token, User: user}, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load user")
	}
	return u, nil
}

type ProfileUpdate struct {
	Name   *string
	Phone  *string
	Avatar *string
}

func (s *Service) UpdateProfile(ctx context.Context, id uint, in ProfileUpdate) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Avatar != nil {
		u.Avatar = *in.Avatar
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, apperror.Internal(err, "Failed to update profile")
	}
	return u, nil
}

func (s *Service) Teachers(ctx context.Context) ([]models.User, error) {
	list, err := s.users.ListByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list teachers")
	}
	return list, nil
}

type UserPage struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (s *Service) List(ctx context.Context, page repository.Page) (*UserPage, error) {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit <= 0 {
		page.Limit = 20
	}
	list, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list users")
	}
	return &UserPage{Users: list, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.Internal(err, "Failed to delete user")
	}
	return nil
}
