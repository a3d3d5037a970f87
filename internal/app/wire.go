//go:build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/cory-johannsen/battlesim/internal/config"
)

// InitializeRuntime builds a Runtime from cfg.
func InitializeRuntime(ctx context.Context, cfg config.Config) (*Runtime, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
