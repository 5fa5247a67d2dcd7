package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/categorization_engine/internal/apperrors"
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/categorization_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
)

type categoryDirectoryService struct {
	BaseService
	repo portsrepo.CategoryRepositoryFacade
}

// NewCategoryDirectoryService creates the category directory.
func NewCategoryDirectoryService(repo portsrepo.CategoryRepositoryFacade) portssvc.CategoryDirectorySvc {
	return &categoryDirectoryService{BaseService: newBaseService(), repo: repo}
}

var _ portssvc.CategoryDirectorySvc = (*categoryDirectoryService)(nil)

func (s *categoryDirectoryService) ResolveCategory(ctx context.Context, categoryID string, orgID string) (*domain.Category, error) {
	if categoryID == "" {
		return nil, fmt.Errorf("%w: category id is required", apperrors.ErrValidation)
	}
	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find category", slog.String("category_id", categoryID))
		}
		return nil, err
	}
	// Another organization's category is reported as missing, not forbidden.
	if !category.VisibleTo(orgID) {
		return nil, fmt.Errorf("%w: category %s", apperrors.ErrNotFound, categoryID)
	}
	return category, nil
}

func (s *categoryDirectoryService) ListCategories(ctx context.Context, orgID string) ([]domain.Category, error) {
	categories, err := s.repo.ListCategoriesForOrg(ctx, orgID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories", slog.String("org_id", orgID))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

// SeedCategories creates roots first and then children in input order, each child
// resolving its parent among categories already placed. A child whose parent is
// unknown at that point is rejected, so the tree cannot contain cycles.
// Global seeds keep their key as category id; organization seeds get generated ids.
func (s *categoryDirectoryService) SeedCategories(ctx context.Context, orgID *string, seeds []domain.CategorySeed) ([]domain.Category, error) {
	if len(seeds) == 0 {
		return []domain.Category{}, nil
	}
	seen := make(map[string]struct{}, len(seeds))
	for _, seed := range seeds {
		key := strings.TrimSpace(seed.Key)
		if key == "" || strings.TrimSpace(seed.Name) == "" {
			return nil, fmt.Errorf("%w: category seed requires key and name", apperrors.ErrValidation)
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate category key %q", apperrors.ErrValidation, key)
		}
		seen[key] = struct{}{}
		if seed.Tier != nil {
			switch *seed.Tier {
			case domain.TierRevenue, domain.TierCostOfGoods, domain.TierOperatingExpense:
			default:
				return nil, fmt.Errorf("%w: category %q has unknown tier %q", apperrors.ErrValidation, key, *seed.Tier)
			}
		}
	}

	now := s.timestamp()
	actor := "system"
	placed := make(map[string]string, len(seeds)) // seed key -> category id
	created := make([]domain.Category, 0, len(seeds))

	build := func(seed domain.CategorySeed, parentID *string) domain.Category {
		id := strings.TrimSpace(seed.Key)
		if orgID != nil {
			id = s.generateID()
		}
		placed[strings.TrimSpace(seed.Key)] = id
		return domain.Category{
			CategoryID: id,
			OrgID:      orgID,
			ParentID:   parentID,
			Name:       strings.TrimSpace(seed.Name),
			Tier:       seed.Tier,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor,
				LastUpdatedAt: now,
				LastUpdatedBy: actor,
			},
		}
	}

	// Pass 1: roots.
	for _, seed := range seeds {
		if strings.TrimSpace(seed.ParentKey) == "" {
			created = append(created, build(seed, nil))
		}
	}
	// Pass 2: children, parents must already be placed.
	for _, seed := range seeds {
		parentKey := strings.TrimSpace(seed.ParentKey)
		if parentKey == "" {
			continue
		}
		parentID, ok := placed[parentKey]
		if !ok {
			return nil, fmt.Errorf("%w: category %q references unknown or later parent %q", apperrors.ErrValidation, seed.Key, parentKey)
		}
		created = append(created, build(seed, &parentID))
	}

	if err := s.repo.SaveCategories(ctx, created); err != nil {
		s.LogError(ctx, err, "Failed to save seeded categories", slog.Int("count", len(created)))
		return nil, fmt.Errorf("failed to save categories: %w", err)
	}
	s.LogInfo(ctx, "Categories seeded", slog.Int("count", len(created)))
	return created, nil
}
