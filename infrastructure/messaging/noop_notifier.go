package messaging

import (
	"context"

	"vibewire/application/ports"
	"vibewire/domain/packet"

	"go.uber.org/zap"
)

// NoopNotifier logs deliveries instead of publishing them. Used in
// development and whenever no event bus is configured.
type NoopNotifier struct {
	logger *zap.Logger
}

// NewNoopNotifier creates a notifier that only logs
func NewNoopNotifier(logger *zap.Logger) ports.Notifier {
	return &NoopNotifier{logger: logger}
}

// NotifyPacket logs the delivery and succeeds
func (n *NoopNotifier) NotifyPacket(_ context.Context, recipientID string, pkt *packet.Packet) error {
	n.logger.Debug("Packet delivered (no notifier configured)",
		zap.String("recipientID", recipientID),
		zap.String("packetID", pkt.ID),
	)
	return nil
}
