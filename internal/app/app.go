package app

import (
	"context"
	"docregistry/internal/cache/redis"
	"docregistry/internal/clock"
	"docregistry/internal/config"
	"docregistry/internal/dbs/postgres"
	metacache "docregistry/internal/repositories/cache/meta"
	collectionrepo "docregistry/internal/repositories/db/collection"
	documentrepo "docregistry/internal/repositories/db/document"
	membershiprepo "docregistry/internal/repositories/db/membership"
	collectionservice "docregistry/internal/services/collection"
	documentservice "docregistry/internal/services/document"
	membershipservice "docregistry/internal/services/membership"
	"fmt"
	"log/slog"
)

type App struct {
	CollectionService CollectionService
	DocumentService   DocumentService
	MembershipService MembershipService
}

func NewApp(ctx context.Context, log *slog.Logger, dbCfg config.DB, cacheCfg config.Cache) (*App, error) {
	db, err := postgres.New(ctx, postgres.Config{
		Addr:     dbCfg.Addr,
		Port:     dbCfg.Port,
		User:     dbCfg.User,
		Password: dbCfg.Password,
		DB:       dbCfg.DB,
		SSLMode:  dbCfg.SSLMode,
	})
	if err != nil {
		log.Error("failed connect to db", "err", err)
		return nil, fmt.Errorf("failed connect to db: %w", err)
	}

	cache, err := redis.New(ctx, redis.Config{Addr: cacheCfg.Addr, Password: cacheCfg.Password, DB: cacheCfg.DB})
	if err != nil {
		log.Error("failed connect to cache", "err", err)
		return nil, fmt.Errorf("failed connect to cache: %w", err)
	}

	metaCacheRepo := metacache.New(cache, cacheCfg.MetaTTL)

	clk := clock.NewMonotonic()

	colRepo := collectionrepo.NewRepository(db)
	docRepo := documentrepo.NewRepository(db)
	memRepo := membershiprepo.NewRepository(db)

	collectionService := collectionservice.New(log, colRepo, metaCacheRepo, clk)
	documentService := documentservice.New(log, docRepo, metaCacheRepo, clk)
	membershipService := membershipservice.New(log, memRepo, colRepo, docRepo, clk)

	return &App{
		CollectionService: collectionService,
		DocumentService:   documentService,
		MembershipService: membershipService,
	}, nil
}
