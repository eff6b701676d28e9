// Copyright (c) 2026 Mistwell Games. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (queue, clients) via constructors.
  - Zero Hidden State: No global variables are used to store config.

Missing storefront or card-database credentials are the only fatal startup
condition in the pipeline: everything downstream degrades per item, never
per process.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the cardsync service.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL) — enrichment run log
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis) — dedup queue
	RedisURL string `env:"REDIS_URL,required"`

	// Storefront catalog (Shopify Admin GraphQL)
	ShopifyShopDomain  string `env:"SHOPIFY_SHOP_DOMAIN,required"`
	ShopifyAccessToken string `env:"SHOPIFY_ACCESS_TOKEN,required"`
	ShopifyAPIVersion  string `env:"SHOPIFY_API_VERSION" envDefault:"2025-07"`

	// ShopifyWebhookSecret signs inbound webhook bodies (HMAC-SHA256).
	// Optional in development: when empty, signature checks are skipped.
	ShopifyWebhookSecret string `env:"SHOPIFY_WEBHOOK_SECRET"`

	// Card database (Scryfall)
	ScryfallBaseURL string `env:"SCRYFALL_BASE_URL" envDefault:"https://api.scryfall.com"`

	// SnapshotPath is where the bulk inventory snapshot document is persisted.
	SnapshotPath string `env:"SNAPSHOT_PATH" envDefault:"./data/inventory-snapshot.json"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// ShopifyGraphQLURL returns the Admin GraphQL endpoint for the configured shop.
func (c *Config) ShopifyGraphQLURL() string {
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.ShopifyShopDomain, c.ShopifyAPIVersion)
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
