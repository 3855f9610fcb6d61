package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vibewire/application/ports"
	"vibewire/domain/packet"
	pkgerrors "vibewire/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

const eventSource = "vibewire.packets"

// PacketNotifier implements the Notifier port using AWS EventBridge.
// The surrounding notification and inbox features subscribe to the bus;
// this core only emits.
type PacketNotifier struct {
	client       *eventbridge.Client
	eventBusName string
	logger       *zap.Logger
}

// NewPacketNotifier creates a new EventBridge notifier
func NewPacketNotifier(client *eventbridge.Client, eventBusName string, logger *zap.Logger) ports.Notifier {
	return &PacketNotifier{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

// packetDeliveredEvent is the bus payload. The full vibe travels with it so
// subscribers can render a preview without a read back into the store.
type packetDeliveredEvent struct {
	RecipientID string         `json:"recipientId"`
	Packet      *packet.Packet `json:"packet"`
	DeliveredAt time.Time      `json:"deliveredAt"`
}

// NotifyPacket publishes a packet-delivered event
func (n *PacketNotifier) NotifyPacket(ctx context.Context, recipientID string, pkt *packet.Packet) error {
	detail, err := json.Marshal(packetDeliveredEvent{
		RecipientID: recipientID,
		Packet:      pkt,
		DeliveredAt: time.Now().UTC(),
	})
	if err != nil {
		return pkgerrors.NewExternalError("eventbridge", err)
	}

	_, err = n.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(n.eventBusName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String("vibe.packet.delivered"),
				Detail:       aws.String(string(detail)),
				Resources: []string{
					fmt.Sprintf("arn:aws:vibewire::%s", recipientID),
				},
			},
		},
	})
	if err != nil {
		return pkgerrors.NewExternalError("eventbridge", err)
	}

	n.logger.Debug("Published packet-delivered event",
		zap.String("recipientID", recipientID),
		zap.String("packetID", pkt.ID),
	)
	return nil
}
