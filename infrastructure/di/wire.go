//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"vibewire/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideDetector,
	ProvideHumor,
	ProvideSafetyFilter,
	ProvidePacketFactory,
	ProvideStateMachine,
	ProvideAggregator,
	ProvideMetrics,
	ProvideStateStore,
	ProvideNotifier,
	ProvideVibeService,
	ProvidePacketService,
	ProvideTimelineService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
