package di

import (
	"context"
	"fmt"

	"vibewire/application/ports"
	"vibewire/application/services"
	domaincfg "vibewire/domain/config"
	"vibewire/domain/packet"
	"vibewire/domain/state"
	"vibewire/domain/vibe"
	"vibewire/infrastructure/config"
	"vibewire/infrastructure/messaging"
	"vibewire/infrastructure/messaging/eventbridge"
	dynamostore "vibewire/infrastructure/persistence/dynamodb"
	memorystore "vibewire/infrastructure/persistence/memory"
	sqlitestore "vibewire/infrastructure/persistence/sqlite"
	"vibewire/pkg/observability"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	Metrics         *observability.Metrics
	VibeService     *services.VibeService
	PacketService   *services.PacketService
	TimelineService *services.TimelineService
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideDomainConfig returns the domain tuning constants
func ProvideDomainConfig() *domaincfg.DomainConfig {
	return domaincfg.DefaultDomainConfig()
}

// ProvideDetector creates the vibe detector
func ProvideDetector(dcfg *domaincfg.DomainConfig) *vibe.Detector {
	return vibe.NewDetector(dcfg)
}

// ProvideHumor creates the humor module
func ProvideHumor() *vibe.Humor {
	return vibe.NewHumor()
}

// ProvideSafetyFilter creates the safety filter
func ProvideSafetyFilter(humor *vibe.Humor, dcfg *domaincfg.DomainConfig) *vibe.SafetyFilter {
	return vibe.NewSafetyFilter(humor, dcfg)
}

// ProvidePacketFactory creates the packet factory
func ProvidePacketFactory(detector *vibe.Detector, dcfg *domaincfg.DomainConfig) *packet.Factory {
	return packet.NewFactory(detector, dcfg)
}

// ProvideStateMachine creates the vibe state machine
func ProvideStateMachine(dcfg *domaincfg.DomainConfig) *state.Machine {
	return state.NewMachine(dcfg)
}

// ProvideAggregator creates the timeline aggregator
func ProvideAggregator(dcfg *domaincfg.DomainConfig) *state.Aggregator {
	return state.NewAggregator(dcfg)
}

// ProvideMetrics creates the Prometheus metrics collector
func ProvideMetrics() *observability.Metrics {
	return observability.NewMetrics("vibewire")
}

// ProvideStateStore selects the persistence backend by configuration
func ProvideStateStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.StateStore, error) {
	switch cfg.StateStore {
	case config.StoreMemory:
		return memorystore.NewStateStore(), nil
	case config.StoreSQLite:
		return sqlitestore.NewStateStore(cfg.SQLitePath)
	case config.StoreDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client := awsdynamodb.NewFromConfig(awsCfg)
		return dynamostore.NewStateStore(client, cfg.DynamoDBTable, logger), nil
	default:
		return nil, fmt.Errorf("unknown state store %q", cfg.StateStore)
	}
}

// ProvideNotifier wires EventBridge when a bus is configured, otherwise
// the logging no-op
func ProvideNotifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.Notifier, error) {
	if cfg.EventBusName == "" {
		return messaging.NewNoopNotifier(logger), nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := awseventbridge.NewFromConfig(awsCfg)
	return eventbridge.NewPacketNotifier(client, cfg.EventBusName, logger), nil
}

// ProvideVibeService creates the analysis service
func ProvideVibeService(
	detector *vibe.Detector,
	humor *vibe.Humor,
	safety *vibe.SafetyFilter,
	dcfg *domaincfg.DomainConfig,
	logger *zap.Logger,
) *services.VibeService {
	return services.NewVibeService(detector, humor, safety, dcfg, logger)
}

// ProvidePacketService creates the packet service
func ProvidePacketService(
	factory *packet.Factory,
	safety *vibe.SafetyFilter,
	machine *state.Machine,
	store ports.StateStore,
	notifier ports.Notifier,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *services.PacketService {
	return services.NewPacketService(factory, safety, machine, store, notifier, metrics, logger)
}

// ProvideTimelineService creates the timeline service
func ProvideTimelineService(
	store ports.StateStore,
	aggregator *state.Aggregator,
	dcfg *domaincfg.DomainConfig,
	logger *zap.Logger,
) *services.TimelineService {
	return services.NewTimelineService(store, aggregator, dcfg, logger)
}
