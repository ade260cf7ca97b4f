package auth

import (
	"context"
	"fmt"
	"log/slog"
)

// BootstrapStorage is the subset of storage needed for token bootstrap.
type BootstrapStorage interface {
	CountServiceTokens(ctx context.Context) (int, error)
	CreateServiceToken(ctx context.Context, name, token string) (int64, error)
}

// Bootstrap creates the initial service token when none exist yet.
//
// The token value comes from configuration. If any tokens already
// exist the call is a no-op.
func Bootstrap(ctx context.Context, s BootstrapStorage, token string, logger *slog.Logger) error {
	if token == "" {
		return nil
	}

	count, err := s.CountServiceTokens(ctx)
	if err != nil {
		return fmt.Errorf("counting service tokens: %w", err)
	}
	if count > 0 {
		return nil
	}

	id, err := s.CreateServiceToken(ctx, "bootstrap", token)
	if err != nil {
		return fmt.Errorf("creating bootstrap token: %w", err)
	}

	logger.Info("Created bootstrap service token", "token_id", id)
	return nil
}
