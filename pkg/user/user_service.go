package user

import (
	"context"
	"errors"
	"fmt"
	"log"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils/mailing"
	"foodgram-backend/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		GetUsers(ctx context.Context, page, limit int, requesterID uint) ([]domain.UserResponse, int64, error)
		GetUserDetail(ctx context.Context, id uint, requesterID uint) (domain.UserResponse, error)
		Me(ctx context.Context, requesterID uint) (domain.UserResponse, error)
		SetPassword(ctx context.Context, req domain.SetPasswordRequest, requesterID uint) error

		Subscribe(ctx context.Context, authorID uint, requesterID uint) (domain.SubscriptionResponse, error)
		CheckSubscription(ctx context.Context, authorID uint, requesterID uint) (domain.UserResponse, error)
		Unsubscribe(ctx context.Context, authorID uint, requesterID uint) error
		GetSubscriptions(ctx context.Context, page, limit, recipesLimit int, requesterID uint) ([]domain.SubscriptionResponse, int64, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		mailer         mailing.Mailer
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, mailer mailing.Mailer) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		mailer:         mailer,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.UserResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user := &entities.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.UserResponse{}, domain.ErrEmailAlreadyExists
		}
		return domain.UserResponse{}, err
	}

	if s.mailer != nil {
		go func(email, name string) {
			body := fmt.Sprintf("<p>Hi %s, welcome to Foodgram! Start sharing your recipes.</p>", name)
			if err := s.mailer.Send(email, "Welcome to Foodgram", body); err != nil {
				log.Printf("failed to send welcome mail to %s: %v", email, err)
			}
		}(user.Email, user.FirstName)
	}

	return toUserResponse(user, false), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	return domain.LoginResponse{Token: s.jwtService.GenerateTokenUser(user.ID)}, nil
}

func (s *userService) GetUsers(ctx context.Context, page, limit int, requesterID uint) ([]domain.UserResponse, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.UserResponse, 0, len(users))
	for _, user := range users {
		subscribed, err := s.subscribedTo(ctx, requesterID, user.ID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, toUserResponse(user, subscribed))
	}
	return result, count, nil
}

func (s *userService) GetUserDetail(ctx context.Context, id uint, requesterID uint) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	subscribed, err := s.subscribedTo(ctx, requesterID, user.ID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user, subscribed), nil
}

func (s *userService) Me(ctx context.Context, requesterID uint) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}
	return toUserResponse(user, false), nil
}

func (s *userService) SetPassword(ctx context.Context, req domain.SetPasswordRequest, requesterID uint) error {
	user, err := s.userRepository.GetUserByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrPasswordNotMatch
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) Subscribe(ctx context.Context, authorID uint, requesterID uint) (domain.SubscriptionResponse, error) {
	author, err := s.checkSubscribable(ctx, authorID, requesterID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	subscribe := &entities.Subscribe{UserID: requesterID, AuthorID: authorID}
	if err := s.userRepository.CreateSubscribe(ctx, subscribe); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.SubscriptionResponse{}, domain.ErrAlreadySubscribed
		}
		return domain.SubscriptionResponse{}, err
	}

	return s.toSubscriptionResponse(ctx, author, 0)
}

// CheckSubscription is the side-effect-free probe: it reports whether the
// requester could subscribe to the author, without creating the edge.
func (s *userService) CheckSubscription(ctx context.Context, authorID uint, requesterID uint) (domain.UserResponse, error) {
	author, err := s.checkSubscribable(ctx, authorID, requesterID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(author, false), nil
}

func (s *userService) checkSubscribable(ctx context.Context, authorID uint, requesterID uint) (*entities.User, error) {
	// Self-subscription is rejected before any lookup so the error is stable
	// regardless of prior subscription state.
	if authorID == requesterID {
		return nil, domain.ErrSelfSubscribe
	}

	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	subscribed, err := s.userRepository.IsSubscribed(ctx, requesterID, authorID)
	if err != nil {
		return nil, err
	}
	if subscribed {
		return nil, domain.ErrAlreadySubscribed
	}
	return author, nil
}

func (s *userService) Unsubscribe(ctx context.Context, authorID uint, requesterID uint) error {
	rows, err := s.userRepository.DeleteSubscribe(ctx, requesterID, authorID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrSubscribeNotFound
	}
	return nil
}

func (s *userService) GetSubscriptions(ctx context.Context, page, limit, recipesLimit int, requesterID uint) ([]domain.SubscriptionResponse, int64, error) {
	authors, count, err := s.userRepository.GetSubscriptions(ctx, requesterID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		res, err := s.toSubscriptionResponse(ctx, author, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		res.IsSubscribed = true
		result = append(result, res)
	}
	return result, count, nil
}

func (s *userService) toSubscriptionResponse(ctx context.Context, author *entities.User, recipesLimit int) (domain.SubscriptionResponse, error) {
	count, err := s.userRepository.CountRecipesByAuthor(ctx, author.ID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	recipes, err := s.userRepository.GetRecipesByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	summaries := make([]domain.RecipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		summaries = append(summaries, domain.RecipeSummary{
			ID:          recipe.ID,
			Name:        recipe.Name,
			Image:       recipe.Image,
			CookingTime: recipe.CookingTime,
		})
	}

	return domain.SubscriptionResponse{
		UserResponse: toUserResponse(author, true),
		Recipes:      summaries,
		RecipesCount: count,
	}, nil
}

func (s *userService) subscribedTo(ctx context.Context, requesterID, authorID uint) (bool, error) {
	if requesterID == 0 || requesterID == authorID {
		return false, nil
	}
	return s.userRepository.IsSubscribed(ctx, requesterID, authorID)
}

func toUserResponse(user *entities.User, subscribed bool) domain.UserResponse {
	return domain.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}
