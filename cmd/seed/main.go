package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/shopease/shopease-backend/internal/inventory"
	"github.com/shopease/shopease-backend/internal/products"
	"github.com/shopease/shopease-backend/internal/users"
	"github.com/shopease/shopease-backend/pkg/config"
	"github.com/shopease/shopease-backend/pkg/db"
	"github.com/shopease/shopease-backend/pkg/db/models"
	"github.com/shopease/shopease-backend/pkg/logger"
	"github.com/shopease/shopease-backend/pkg/security"
)

const (
	demoEmail          = "demo@shopease.example.com"
	demoPasswordLength = 16
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	force := flag.Bool("force", false, "seed the catalog even when products already exist")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env":       cfg.App.Env,
		"data_path": cfg.Seed.DataPath,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	productService, err := products.NewService(products.ServiceParams{
		ProductRepo:   products.NewRepository(dbClient.DB()),
		InventoryRepo: inventory.NewRepository(dbClient.DB()),
		Tx:            dbClient,
	})
	requireResource(ctx, logg, "product service", err)

	if err := seedCatalog(ctx, logg, cfg.Seed.DataPath, productService, *force); err != nil {
		logg.Error(ctx, "catalog seed failed", err)
		os.Exit(1)
	}

	if err := seedDemoUser(ctx, logg, users.NewRepository(dbClient.DB()), cfg.Password); err != nil {
		logg.Error(ctx, "demo user seed failed", err)
		os.Exit(1)
	}

	logg.Info(ctx, "seed complete")
}

func seedCatalog(ctx context.Context, logg *logger.Logger, dataPath string, svc products.Service, force bool) error {
	raw, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("read seed data: %w", err)
	}

	var items []products.CreateProductRequest
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("decode seed data: %w", err)
	}

	existing, err := svc.List(ctx, products.ListRequest{Limit: 1})
	if err != nil {
		return fmt.Errorf("inspect catalog: %w", err)
	}
	if len(existing.Products) > 0 && !force {
		logg.Warn(ctx, "catalog already has products, skipping (use -force to seed anyway)")
		return nil
	}

	var errs error
	created := 0
	for _, item := range items {
		if _, err := svc.Create(ctx, item); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("seed product %q: %w", item.Name, err))
			continue
		}
		created++
	}
	logg.Info(logg.WithField(ctx, "created", created), "catalog seeded")
	return errs
}

func seedDemoUser(ctx context.Context, logg *logger.Logger, repo *users.Repository, cfg config.PasswordConfig) error {
	if _, err := repo.FindByEmail(ctx, demoEmail); err == nil {
		logg.Info(ctx, "demo user already exists, skipping")
		return nil
	}

	password, err := security.GenerateTempPassword(demoPasswordLength)
	if err != nil {
		return fmt.Errorf("generate demo password: %w", err)
	}
	hash, err := security.HashPassword(password, cfg)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	if _, err := repo.Create(ctx, &models.User{
		Email:        demoEmail,
		PasswordHash: hash,
		FirstName:    "Demo",
		LastName:     "Shopper",
		IsActive:     true,
	}); err != nil {
		return fmt.Errorf("create demo user: %w", err)
	}

	// The password is only recoverable here, so print it for the operator.
	fmt.Printf("demo user created: %s / %s\n", demoEmail, password)
	return nil
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
