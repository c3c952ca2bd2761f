package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/pgetl/internal/retry"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// tokenExpiryWarning is how close to expiry a freshly issued token must be
// before a warning is logged.
const tokenExpiryWarning = 5 * time.Minute

// TokenBasedConnector authenticates with short-lived cloud tokens used as
// the PostgreSQL password (AWS IAM, Azure Entra ID). A fresh token is
// fetched for every physical connection the pool opens.
type TokenBasedConnector struct {
	config        *pgetl.ConnectionConfig
	tokenProvider TokenProvider
	retryExecutor *retry.Executor
	providerName  string
	logger        pgetl.Logger
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for authentication.
// providerName is used in messages (e.g. "AWS IAM", "Azure").
func NewTokenBasedConnector(config *pgetl.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger pgetl.Logger) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		retryExecutor: newRetryExecutor(logger),
		providerName:  providerName,
		logger:        logger,
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	connStr := BuildConnectionString(c.config)

	c.logger.Verbose("Authenticating with %s", c.tokenProvider)

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		var err error
		pool, err = openPool(ctx, c.config, connStr, c.logger, func(poolConfig *pgxpool.Config) {
			poolConfig.BeforeConnect = c.injectToken
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return pool, nil
}

func (c *TokenBasedConnector) injectToken(ctx context.Context, connConfig *pgx.ConnConfig) error {
	token, expiresOn, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
	}

	if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
		c.logger.Info("Warning: %s token expires in %v", c.providerName, remaining.Round(time.Second))
	}

	connConfig.Password = token
	return nil
}
