// Package account owns the session lifecycle: login, registration,
// logout, profile edits and the order history.
package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/kubukshop/storefront/internal/errors"
	"github.com/kubukshop/storefront/internal/models"
	"github.com/kubukshop/storefront/internal/session"
)

type API interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (string, error)
	Me(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.User, error)
	Orders(ctx context.Context) ([]models.Order, error)
}

type Service struct {
	api      API
	session  *session.Store
	validate *validator.Validate
}

func NewService(apiClient API, store *session.Store) *Service {
	return &Service{
		api:      apiClient,
		session:  store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Login obtains a token and then the profile, persisting both in the
// session store in that order (token first, so the profile fetch is
// authorized through the same token source).
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	token, err := s.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.session.SaveToken(token); err != nil {
		return nil, apperrors.SessionError("failed to persist auth token").WithError(err)
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.session.Save(user, token); err != nil {
		return nil, apperrors.SessionError("failed to persist session").WithError(err)
	}

	return user, nil
}

// Register creates the account and logs straight in with the same
// credentials.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.api.Register(ctx, req); err != nil {
		return nil, err
	}

	return s.Login(ctx, &models.LoginRequest{Email: req.Email, Password: req.Password})
}

func (s *Service) Logout() {
	s.session.Clear()
}

func (s *Service) UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.User, error) {
	if s.session.Token() == "" {
		return nil, apperrors.UnauthorizedError("not logged in")
	}

	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.api.UpdateProfile(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.session.Save(user, s.session.Token()); err != nil {
		return nil, apperrors.SessionError("failed to persist session").WithError(err)
	}

	return user, nil
}

func (s *Service) Orders(ctx context.Context) ([]models.Order, error) {
	if s.session.Token() == "" {
		return nil, apperrors.UnauthorizedError("not logged in")
	}

	return s.api.Orders(ctx)
}

func (s *Service) CurrentUser() *models.User {
	return s.session.User()
}

func (s *Service) LoggedIn() bool {
	return s.session.Token() != ""
}

// validateStruct runs pre-dispatch validation and reports failures as
// field-specific messages, never reaching the network.
func (s *Service) validateStruct(data any) error {
	err := s.validate.Struct(data)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.InternalError("unexpected validation error").WithError(err)
	}

	parts := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.ToLower(fieldErr.Field()), fieldErr.Tag()))
	}

	return apperrors.ValidationError("invalid input").WithDetail(strings.Join(parts, "; ")).WithError(err)
}
