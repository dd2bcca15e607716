package recipes

import (
	"context"
	"errors"
	"net/http"

	"foodgram/internal/access"
	"foodgram/internal/domain"
	"foodgram/internal/pkg/images"
	"foodgram/internal/repository"
)

// Service owns the recipe lifecycle: the validated, atomic create/update
// transaction, listing with per-viewer flags, the favorite and cart toggles,
// and the shopping-list aggregation.
type Service struct {
	recipes     RecipeRepository
	tags        TagRepository
	ingredients IngredientRepository
	favorites   MembershipRepository
	cart        MembershipRepository
	users       UserGetter
	subs        SubscriptionChecker
	images      ImageStore
	policy      access.Policy
}

func NewService(
	recipes RecipeRepository,
	tags TagRepository,
	ingredients IngredientRepository,
	favorites MembershipRepository,
	cart MembershipRepository,
	users UserGetter,
	subs SubscriptionChecker,
	imageStore ImageStore,
) *Service {
	return &Service{
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		favorites:   favorites,
		cart:        cart,
		users:       users,
		subs:        subs,
		images:      imageStore,
		policy:      access.AnyOf{access.SafeOrAuthor{}, access.AdminOrReadOnly{}},
	}
}

func (s *Service) Create(ctx context.Context, id access.Identity, req RecipePayload) (*domain.Recipe, error) {
	tags, items, err := s.validatePayload(ctx, req, true)
	if err != nil {
		return nil, err
	}

	imagePath, err := s.images.SaveDataURI(req.Image)
	if err != nil {
		return nil, ValidationErrors{{Field: "image", Message: "invalid image payload"}}
	}

	rec := &domain.Recipe{
		AuthorID:    id.ID,
		Name:        req.Name,
		Image:       imagePath,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Tags:        tags,
		Ingredients: items,
	}
	if err := s.recipes.Create(ctx, rec); err != nil {
		return nil, err
	}

	return s.Get(ctx, id, rec.ID)
}

func (s *Service) Update(ctx context.Context, id access.Identity, recipeID int64, req RecipePayload) (*domain.Recipe, error) {
	current, err := s.recipes.GetByID(ctx, recipeID, id.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.policy.PermitObject(id, http.MethodPatch, current.AuthorID); err != nil {
		return nil, err
	}

	tags, items, err := s.validatePayload(ctx, req, false)
	if err != nil {
		return nil, err
	}

	imagePath := current.Image
	if images.IsDataURI(req.Image) {
		imagePath, err = s.images.SaveDataURI(req.Image)
		if err != nil {
			return nil, ValidationErrors{{Field: "image", Message: "invalid image payload"}}
		}
	}

	rec := &domain.Recipe{
		ID:          recipeID,
		AuthorID:    current.AuthorID,
		Name:        req.Name,
		Image:       imagePath,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Tags:        tags,
		Ingredients: items,
	}
	if err := s.recipes.Update(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.Get(ctx, id, recipeID)
}

func (s *Service) Delete(ctx context.Context, id access.Identity, recipeID int64) error {
	current, err := s.recipes.GetByID(ctx, recipeID, id.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.policy.PermitObject(id, http.MethodDelete, current.AuthorID); err != nil {
		return err
	}

	return s.recipes.Delete(ctx, recipeID)
}

func (s *Service) Get(ctx context.Context, id access.Identity, recipeID int64) (*domain.Recipe, error) {
	rec, err := s.recipes.GetByID(ctx, recipeID, id.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.annotateAuthors(ctx, id, []domain.Recipe{}, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, id access.Identity, params ListParams) ([]domain.Recipe, int64, error) {
	filter := repository.RecipeFilter{
		AuthorID: params.Author,
		TagSlugs: params.Tags,
		Limit:    params.Limit,
	}
	if params.Page > 1 {
		filter.Offset = (params.Page - 1) * params.Limit
	}
	if params.IsFavorited && id.Authenticated {
		filter.FavoritedBy = id.ID
	}
	if params.IsInShoppingCart && id.Authenticated {
		filter.InCartOf = id.ID
	}

	recipes, total, err := s.recipes.List(ctx, filter, id.ID)
	if err != nil {
		return nil, 0, err
	}

	if err := s.annotateAuthors(ctx, id, recipes, nil); err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// annotateAuthors fills the viewer's is_subscribed flag on recipe authors.
func (s *Service) annotateAuthors(ctx context.Context, id access.Identity, recipes []domain.Recipe, single *domain.Recipe) error {
	if !id.Authenticated {
		return nil
	}

	authorIDs := make([]int64, 0, len(recipes)+1)
	for i := range recipes {
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}
	if single != nil {
		authorIDs = append(authorIDs, single.AuthorID)
	}

	followed, err := s.subs.FilterFollowed(ctx, id.ID, authorIDs)
	if err != nil {
		return err
	}

	for i := range recipes {
		if recipes[i].Author != nil {
			recipes[i].Author.IsSubscribed = followed[recipes[i].AuthorID]
		}
	}
	if single != nil && single.Author != nil {
		single.Author.IsSubscribed = followed[single.AuthorID]
	}
	return nil
}

// resolveForToggle looks up the recipe for a membership toggle. A missing id
// on POST is reported as a validation error so clients always get the same
// bad-request shape; on DELETE it stays a not-found.
func (s *Service) resolveForToggle(ctx context.Context, id access.Identity, recipeID int64, post bool) (*domain.Recipe, error) {
	rec, err := s.recipes.GetByID(ctx, recipeID, id.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if post {
				return nil, ValidationErrors{{Field: "recipe", Message: "recipe does not exist"}}
			}
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *Service) AddFavorite(ctx context.Context, id access.Identity, recipeID int64) (*domain.Recipe, error) {
	return s.addMembership(ctx, id, recipeID, s.favorites, ErrAlreadyFavorited)
}

func (s *Service) RemoveFavorite(ctx context.Context, id access.Identity, recipeID int64) error {
	return s.removeMembership(ctx, id, recipeID, s.favorites, ErrNotFavorited)
}

func (s *Service) AddToCart(ctx context.Context, id access.Identity, recipeID int64) (*domain.Recipe, error) {
	return s.addMembership(ctx, id, recipeID, s.cart, ErrAlreadyInCart)
}

func (s *Service) RemoveFromCart(ctx context.Context, id access.Identity, recipeID int64) error {
	return s.removeMembership(ctx, id, recipeID, s.cart, ErrNotInCart)
}

func (s *Service) addMembership(ctx context.Context, id access.Identity, recipeID int64, rel MembershipRepository, conflict error) (*domain.Recipe, error) {
	rec, err := s.resolveForToggle(ctx, id, recipeID, true)
	if err != nil {
		return nil, err
	}

	exists, err := rel.Exists(ctx, id.ID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict
	}

	if err := rel.Add(ctx, id.ID, recipeID); err != nil {
		// A concurrent double-submission trips the unique constraint;
		// report it the same way as the pre-check.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict
		}
		return nil, err
	}
	return rec, nil
}

func (s *Service) removeMembership(ctx context.Context, id access.Identity, recipeID int64, rel MembershipRepository, conflict error) error {
	if _, err := s.resolveForToggle(ctx, id, recipeID, false); err != nil {
		return err
	}

	if err := rel.Remove(ctx, id.ID, recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return conflict
		}
		return err
	}
	return nil
}

// ShoppingList aggregates the caller's cart into a plain-text document and
// returns it with the attachment filename.
func (s *Service) ShoppingList(ctx context.Context, id access.Identity) (filename, content string, err error) {
	user, err := s.users.GetByID(ctx, id.ID)
	if err != nil {
		return "", "", err
	}

	totals, err := s.recipes.ShoppingListTotals(ctx, id.ID)
	if err != nil {
		return "", "", err
	}

	return ShoppingListFilename(user.Username), RenderShoppingList(user.Username, totals), nil
}
