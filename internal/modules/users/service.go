package users

import (
	"context"
	"errors"

	"foodgram/internal/access"
	"foodgram/internal/domain"
	"foodgram/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	users   UserRepositoryInterface
	subs    SubscriptionRepositoryInterface
	recipes RecipePreviewer
}

func NewService(users UserRepositoryInterface, subs SubscriptionRepositoryInterface, recipes RecipePreviewer) *Service {
	return &Service{
		users:   users,
		subs:    subs,
		recipes: recipes,
	}
}

// Register creates an account. Resubmitting the exact same (username, email)
// pair is treated as an idempotent retry and returns the existing account.
func (s *Service) Register(ctx context.Context, req SignupRequest) (*domain.User, bool, error) {
	if !usernamePattern.MatchString(req.Username) || req.Username == "me" {
		return nil, false, ErrInvalidUsername
	}

	existing, err := s.users.GetByUsernameAndEmail(ctx, req.Username, req.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, false, ErrAlreadyExists
		}
		return nil, false, err
	}
	return user, true, nil
}

func (s *Service) Get(ctx context.Context, viewer access.Identity, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if viewer.Authenticated {
		followed, err := s.subs.FilterFollowed(ctx, viewer.ID, []int64{user.ID})
		if err != nil {
			return nil, err
		}
		user.IsSubscribed = followed[user.ID]
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, viewer access.Identity, params ListParams) ([]domain.User, int64, error) {
	offset := 0
	if params.Page > 1 {
		offset = (params.Page - 1) * params.Limit
	}

	users, total, err := s.users.List(ctx, params.Limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if viewer.Authenticated {
		ids := make([]int64, len(users))
		for i := range users {
			ids[i] = users[i].ID
		}
		followed, err := s.subs.FilterFollowed(ctx, viewer.ID, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range users {
			users[i].IsSubscribed = followed[users[i].ID]
		}
	}
	return users, total, nil
}

func (s *Service) SetPassword(ctx context.Context, userID int64, current, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

// Edit applies an administrator's partial update to another user's profile.
func (s *Service) Edit(ctx context.Context, id int64, req EditUserRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Username != "" {
		if !usernamePattern.MatchString(req.Username) || req.Username == "me" {
			return nil, ErrInvalidUsername
		}
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Role != "" {
		user.Role = domain.UserRole(req.Role)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.users.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) Block(ctx context.Context, id int64) error {
	err := s.users.SetActive(ctx, id, false)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) Subscribe(ctx context.Context, userID, authorID int64) (*SubscriptionResponse, error) {
	if userID == authorID {
		return nil, ErrSelfSubscription
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	exists, err := s.subs.Exists(ctx, userID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySubscribed
	}

	if err := s.subs.Add(ctx, userID, authorID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}

	author.IsSubscribed = true
	return s.subscriptionEntry(ctx, author, 0)
}

func (s *Service) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.subs.Remove(ctx, userID, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotSubscribed
		}
		return err
	}
	return nil
}

// Subscriptions lists the authors the user follows, each with a recipe
// preview capped at recipes_limit.
func (s *Service) Subscriptions(ctx context.Context, userID int64, params SubscriptionListParams) ([]SubscriptionResponse, int64, error) {
	offset := 0
	if params.Page > 1 {
		offset = (params.Page - 1) * params.Limit
	}

	authors, total, err := s.subs.ListAuthors(ctx, userID, params.Limit, offset)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]SubscriptionResponse, 0, len(authors))
	for i := range authors {
		authors[i].IsSubscribed = true
		entry, err := s.subscriptionEntry(ctx, &authors[i], params.RecipesLimit)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, *entry)
	}
	return entries, total, nil
}

func (s *Service) subscriptionEntry(ctx context.Context, author *domain.User, recipesLimit int) (*SubscriptionResponse, error) {
	recipes, err := s.recipes.ListByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	count, err := s.recipes.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	return &SubscriptionResponse{
		UserResponse: toUserResponse(author),
		Recipes:      toRecipeBriefs(recipes),
		RecipesCount: count,
	}, nil
}
