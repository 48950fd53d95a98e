package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/schoolweekly/schoolweekly/internal/app"
	"github.com/schoolweekly/schoolweekly/internal/config"
	"github.com/schoolweekly/schoolweekly/internal/model"
	"github.com/schoolweekly/schoolweekly/internal/repository"
	"github.com/schoolweekly/schoolweekly/internal/service"
)

func main() {
	familyFlag := flag.String("family", "", "print the visible feed for this family id")
	groupFlag := flag.String("group", "", "print the visible feed for this class id")
	weekFlag := flag.String("week", "", "newsletter week key, defaults to the current week")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	directoryRepo := repository.NewDirectoryRepository(pool)
	articleRepo := repository.NewArticleRepository(pool)
	groupRepo := repository.NewGroupRepository(pool)

	feed := service.NewFeedService(directoryRepo, articleRepo, groupRepo, logger)

	weekKey := *weekFlag
	if weekKey == "" {
		weekKey = model.WeekOf(time.Now().UTC())
	}

	switch {
	case *familyFlag != "":
		familyID, err := uuid.Parse(*familyFlag)
		if err != nil {
			logger.Fatal("invalid family id", zap.Error(err))
		}
		result, err := feed.VisibleArticlesForFamily(ctx, familyID, weekKey)
		if err != nil {
			logger.Fatal("feed aggregation failed", zap.String("hint", service.ErrorMessage(err)), zap.Error(err))
		}
		printJSON(result)
	case *groupFlag != "":
		groupID, err := uuid.Parse(*groupFlag)
		if err != nil {
			logger.Fatal("invalid class id", zap.Error(err))
		}
		articles, err := feed.VisibleArticlesForGroup(ctx, groupID, weekKey)
		if err != nil {
			logger.Fatal("feed aggregation failed", zap.String("hint", service.ErrorMessage(err)), zap.Error(err))
		}
		printJSON(articles)
	default:
		logger.Sugar().Infow("schoolweekly engine ready",
			"environment", cfg.Environment,
			"week", weekKey,
			"strict_restricted_view", cfg.StrictRestrictedView)
	}
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
