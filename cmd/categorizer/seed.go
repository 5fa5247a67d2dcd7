package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
	"github.com/SscSPs/categorization_engine/internal/core/services"
	"github.com/SscSPs/categorization_engine/internal/platform/config"
	"github.com/SscSPs/categorization_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/categorization_engine/pkg/database"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout accepted by seed-categories.
type seedFile struct {
	Categories []domain.CategorySeed `yaml:"categories"`
	Rules      []domain.RuleSeed     `yaml:"rules"`
}

func loadSeedFile(path string) (*seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %q: %w", path, err)
	}
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %q: %w", path, err)
	}
	if len(f.Categories) == 0 && len(f.Rules) == 0 {
		return nil, fmt.Errorf("seed file %q lists no categories or rules", path)
	}
	return &f, nil
}

// categoryIDsByKey pairs seeds with the categories SeedCategories created from them,
// which come back roots first and then children, each group in input order.
func categoryIDsByKey(seeds []domain.CategorySeed, created []domain.Category) map[string]string {
	ordered := make([]domain.CategorySeed, 0, len(seeds))
	for _, seed := range seeds {
		if strings.TrimSpace(seed.ParentKey) == "" {
			ordered = append(ordered, seed)
		}
	}
	for _, seed := range seeds {
		if strings.TrimSpace(seed.ParentKey) != "" {
			ordered = append(ordered, seed)
		}
	}
	ids := make(map[string]string, len(created))
	for i := 0; i < len(ordered) && i < len(created); i++ {
		ids[strings.TrimSpace(ordered[i].Key)] = created[i].CategoryID
	}
	return ids
}

// resolveRuleCategories rewrites rule categories that name a seed key to the id
// the key was stored under. Other values are passed through as category ids.
func resolveRuleCategories(rules []domain.RuleSeed, ids map[string]string) []domain.RuleSeed {
	out := make([]domain.RuleSeed, len(rules))
	for i, rule := range rules {
		if id, ok := ids[strings.TrimSpace(rule.Category)]; ok {
			rule.Category = id
		}
		out[i] = rule
	}
	return out
}

func newSeedCategoriesCommand(logger *slog.Logger, cfgFn func() *config.Config) *cobra.Command {
	var (
		file  string
		orgID string
	)

	cmd := &cobra.Command{
		Use:   "seed-categories",
		Short: "Create a category tree and curated rules from a YAML file",
		Long: "Creates the categories and rules listed in a YAML file. Without --org they " +
			"are global and shared by every organization. Rules with only an MCC act as " +
			"coarse fallbacks. Re-running with the same rules reassigns their categories " +
			"without duplicating them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cfgFn()
			if cfg.DatabaseURL == "" {
				return errors.New("PGSQL_URL must be set to seed categories")
			}
			seeds, err := loadSeedFile(file)
			if err != nil {
				return err
			}
			return seedCategories(cmd.Context(), logger, cfg, seeds, orgID)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to the category YAML file")
	cmd.Flags().StringVar(&orgID, "org", "", "organization owning the categories (global when empty)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func seedCategories(ctx context.Context, logger *slog.Logger, cfg *config.Config, seeds *seedFile, orgID string) error {
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool)

	repos := pgsql.NewRepositoryProvider(dbPool)
	directory := services.NewCategoryDirectoryService(repos.CategoryRepo)
	rules := services.NewRuleLearnerService(repos.RuleRepo, directory)
	return applySeedFile(ctx, logger, directory, rules, seeds, orgID)
}

func applySeedFile(ctx context.Context, logger *slog.Logger, directory portssvc.CategoryDirectorySvc, rules portssvc.RuleLearnerSvc, seeds *seedFile, orgID string) error {
	var owner *string
	if orgID != "" {
		owner = &orgID
	}

	created, err := directory.SeedCategories(ctx, owner, seeds.Categories)
	if err != nil {
		logger.Error("Failed to seed categories", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Categories seeded", slog.Int("count", len(created)), slog.String("org_id", orgID))

	if len(seeds.Rules) == 0 {
		return nil
	}
	ruleSeeds := resolveRuleCategories(seeds.Rules, categoryIDsByKey(seeds.Categories, created))
	result, err := rules.SeedRules(ctx, owner, ruleSeeds)
	if err != nil {
		logger.Error("Failed to seed rules", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Rules seeded",
		slog.Int("created", result.Created),
		slog.Int("updated", result.Updated),
		slog.Int("unchanged", result.Unchanged),
		slog.String("org_id", orgID))
	return nil
}
