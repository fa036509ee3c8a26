package catalog

import (
	"context"
	"errors"
	"strings"

	"learnhub/apperror"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"
)

type CategoryService struct {
	repo repository.CategoryRepo
	log  *logger.Logger
}

func NewCategoryService(repo repository.CategoryRepo, baseLog *logger.Logger) *CategoryService {
	return &CategoryService{repo: repo, log: baseLog.With("service", "CategoryService")}
}

type CreateCategoryInput struct {
	Name     string
	ParentID *uint
	IsActive *bool
}

// UpdateCategoryInput carries the editable fields. Level, RootID and ParentID are accepted
// so callers can send a whole record back, but they are never applied.
type UpdateCategoryInput struct {
	Name     *string
	Slug     *string
	IsActive *bool

	Level    *int
	RootID   *uint
	ParentID *uint
}

// CategoryNode is a category with its nested children.
type CategoryNode struct {
	models.Category
	Children []*CategoryNode `json:"children"`
}

func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.Validation("Category name is required")
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, apperror.Validation("Category name must contain letters or digits")
	}
	if err := s.ensureSlugFree(ctx, slug, 0); err != nil {
		return nil, err
	}

	cat := &models.Category{Name: name, Slug: slug, Level: 1, IsActive: true}
	if in.IsActive != nil {
		cat.IsActive = *in.IsActive
	}

	// a zero parent id means no parent
	if in.ParentID != nil && *in.ParentID != 0 {
		parent, err := s.repo.GetByID(ctx, *in.ParentID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Parent category not found")
		}
		if err != nil {
			return nil, apperror.Internal(err, "Failed to load parent category")
		}
		if parent.Level >= models.MaxCategoryLevel {
			return nil, apperror.Validation("Category depth cannot exceed 4 levels")
		}
		parentID := parent.ID
		rootID := parent.ID
		if parent.RootID != nil {
			rootID = *parent.RootID
		}
		cat.ParentID = &parentID
		cat.RootID = &rootID
		cat.Level = parent.Level + 1
	}

	if err := s.repo.Create(ctx, cat); err != nil {
		return nil, apperror.Internal(err, "Failed to create category")
	}

	// a root only learns its own id after insert
	if cat.ParentID == nil {
		rootID := cat.ID
		cat.RootID = &rootID
		if err := s.repo.Save(ctx, cat); err != nil {
			return nil, apperror.Internal(err, "Failed to set category root")
		}
	}

	s.log.Info("category created", "id", cat.ID, "level", cat.Level)
	return cat, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, in UpdateCategoryInput) (*models.Category, error) {
	cat, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperror.Validation("Category name is required")
		}
		cat.Name = name
	}

	var newSlug string
	switch {
	case in.Slug != nil:
		newSlug = Slugify(*in.Slug)
	case in.Name != nil:
		newSlug = Slugify(cat.Name)
	}
	if in.Slug != nil || in.Name != nil {
		if newSlug == "" {
			return nil, apperror.Validation("Slug must contain letters or digits")
		}
		if newSlug != cat.Slug {
			if err := s.ensureSlugFree(ctx, newSlug, cat.ID); err != nil {
				return nil, err
			}
			cat.Slug = newSlug
		}
	}

	if in.IsActive != nil {
		cat.IsActive = *in.IsActive
	}

	if err := s.repo.Save(ctx, cat); err != nil {
		return nil, apperror.Internal(err, "Failed to update category")
	}
	return cat, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	hasChildren, err := s.repo.HasChildren(ctx, id)
	if err != nil {
		return apperror.Internal(err, "Failed to check subcategories")
	}
	if hasChildren {
		return apperror.Validation("Cannot delete a category that has subcategories")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.Internal(err, "Failed to delete category")
	}
	return nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	cat, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Category not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load category")
	}
	return cat, nil
}

func (s *CategoryService) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	cats, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list categories")
	}
	return cats, nil
}

func (s *CategoryService) Tree(ctx context.Context, activeOnly bool) ([]*CategoryNode, error) {
	cats, err := s.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return BuildCategoryTree(cats), nil
}

// Related returns every category in the families rooted at rootIDs.
func (s *CategoryService) Related(ctx context.Context, rootIDs []uint) ([]models.Category, error) {
	cats, err := s.repo.ListByRootIDs(ctx, rootIDs)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load related categories")
	}
	return cats, nil
}

func (s *CategoryService) ensureSlugFree(ctx context.Context, slug string, selfID uint) error {
	existing, err := s.repo.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperror.Internal(err, "Failed to check slug")
	}
	if existing.ID != selfID {
		return apperror.Validation("Category slug already exists")
	}
	return nil
}

// BuildCategoryTree groups cats by parent in one pass and nests them from the roots down.
// Recursion stops below MaxCategoryLevel with an empty child list.
func BuildCategoryTree(cats []models.Category) []*CategoryNode {
	byParent := make(map[uint][]models.Category, len(cats))
	for _, c := range cats {
		var key uint
		if c.ParentID != nil {
			key = *c.ParentID
		}
		byParent[key] = append(byParent[key], c)
	}

	var build func(parent uint, depth int) []*CategoryNode
	build = func(parent uint, depth int) []*CategoryNode {
		if depth > models.MaxCategoryLevel {
			return []*CategoryNode{}
		}
		kids := byParent[parent]
		nodes := make([]*CategoryNode, 0, len(kids))
		for _, c := range kids {
			nodes = append(nodes, &CategoryNode{Category: c, Children: build(c.ID, depth+1)})
		}
		return nodes
	}
	return build(0, 1)
}
