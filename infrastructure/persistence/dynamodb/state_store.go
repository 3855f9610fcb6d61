package dynamodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vibewire/domain/state"
	"vibewire/domain/vibe"
	pkgerrors "vibewire/pkg/errors"
	"vibewire/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// StateStore implements the StateStore port on a single DynamoDB table.
// The state record and its history entries share a partition:
//
//	PK = RECIPIENT#<id>  SK = STATE           the current blend
//	PK = RECIPIENT#<id>  SK = VIBE#<timestamp>  one history entry
//
// History sort keys use a fixed-width timestamp so that DynamoDB's
// lexicographic key ordering matches chronological order.
//
// Saves are conditional on the record version, so two packets racing for
// the same recipient surface as a CONFLICT instead of a lost update.
type StateStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewStateStore creates a DynamoDB-backed state store
func NewStateStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *StateStore {
	return &StateStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// stateItem represents the DynamoDB item structure for a state record
type stateItem struct {
	PK          string         `dynamodbav:"PK"`
	SK          string         `dynamodbav:"SK"`
	EntityType  string         `dynamodbav:"EntityType"`
	RecipientID string         `dynamodbav:"RecipientID"`
	Current     map[string]int `dynamodbav:"Current"`
	HistoryJSON string         `dynamodbav:"History"`
	UpdatedAt   string         `dynamodbav:"UpdatedAt"`
	Version     int64          `dynamodbav:"Version"`
}

// historyItem represents one persisted history entry
type historyItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Timestamp string `dynamodbav:"Timestamp"`
	VibeJSON  string `dynamodbav:"Vibe"`
}

func statePK(recipientID string) string {
	return fmt.Sprintf("RECIPIENT#%s", recipientID)
}

// Load retrieves a recipient's state record
func (s *StateStore) Load(ctx context.Context, recipientID string) (*state.State, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: statePK(recipientID)},
			"SK": &types.AttributeValueMemberS{Value: "STATE"},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get state", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("recipient state")
	}

	var item stateItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal state", err)
	}
	return item.toState()
}

// Save writes the state and its newest history entry. The conditional
// write fails when another writer bumped the version first.
func (s *StateStore) Save(ctx context.Context, st *state.State) error {
	item, err := newStateItem(st)
	if err != nil {
		return err
	}
	item.Version = st.Version + 1

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal state", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK) OR Version = :prev"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":prev": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", st.Version)},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewConflictError("state version mismatch")
		}
		return pkgerrors.NewDatabaseError("put state", err)
	}
	st.Version = item.Version

	if n := len(st.History); n > 0 {
		if err := s.putHistoryEntry(ctx, st.RecipientID, st.History[n-1]); err != nil {
			// The blend is saved; a missing history row only thins the
			// timeline, so log and move on.
			s.logger.Warn("Failed to persist history entry",
				zap.String("recipientID", st.RecipientID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// History queries the recipient's partition for entries since the given time
func (s *StateStore) History(ctx context.Context, recipientID string, since time.Time) ([]state.HistoryEntry, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND SK BETWEEN :from AND :to"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":   &types.AttributeValueMemberS{Value: statePK(recipientID)},
			":from": &types.AttributeValueMemberS{Value: "VIBE#" + utils.FormatSortableTime(since)},
			":to":   &types.AttributeValueMemberS{Value: "VIBE#~"},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query history", err)
	}

	entries := make([]state.HistoryEntry, 0, len(out.Items))
	for _, raw := range out.Items {
		var item historyItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("Skipping unreadable history item", zap.Error(err))
			continue
		}
		entry, err := item.toEntry()
		if err != nil {
			s.logger.Warn("Skipping malformed history item", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *StateStore) putHistoryEntry(ctx context.Context, recipientID string, entry state.HistoryEntry) error {
	vibeJSON, err := json.Marshal(entry.Vibe)
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal history vibe", err)
	}
	ts := utils.FormatSortableTime(entry.Timestamp)
	av, err := attributevalue.MarshalMap(historyItem{
		PK:        statePK(recipientID),
		SK:        "VIBE#" + ts,
		Timestamp: ts,
		VibeJSON:  string(vibeJSON),
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal history item", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("put history item", err)
	}
	return nil
}

func newStateItem(st *state.State) (stateItem, error) {
	historyJSON, err := json.Marshal(st.History)
	if err != nil {
		return stateItem{}, pkgerrors.NewDatabaseError("marshal history", err)
	}
	current := make(map[string]int, len(st.Current))
	for d, v := range st.Current {
		current[string(d)] = v
	}
	return stateItem{
		PK:          statePK(st.RecipientID),
		SK:          "STATE",
		EntityType:  "VibeState",
		RecipientID: st.RecipientID,
		Current:     current,
		HistoryJSON: string(historyJSON),
		UpdatedAt:   utils.FormatSortableTime(st.UpdatedAt),
		Version:     st.Version,
	}, nil
}

func (item stateItem) toState() (*state.State, error) {
	var history []state.HistoryEntry
	if item.HistoryJSON != "" {
		if err := json.Unmarshal([]byte(item.HistoryJSON), &history); err != nil {
			return nil, pkgerrors.NewDatabaseError("unmarshal history", err)
		}
	}
	updatedAt, err := utils.ParseSortableTime(item.UpdatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("parse updated at", err)
	}
	current := make(map[vibe.Dimension]int, len(item.Current))
	for d, v := range item.Current {
		current[vibe.Dimension(d)] = v
	}
	return &state.State{
		RecipientID: item.RecipientID,
		Current:     current,
		History:     history,
		UpdatedAt:   updatedAt,
		Version:     item.Version,
	}, nil
}

func (item historyItem) toEntry() (state.HistoryEntry, error) {
	ts, err := utils.ParseSortableTime(item.Timestamp)
	if err != nil {
		return state.HistoryEntry{}, err
	}
	var v vibe.Analysis
	if err := json.Unmarshal([]byte(item.VibeJSON), &v); err != nil {
		return state.HistoryEntry{}, err
	}
	return state.HistoryEntry{Timestamp: ts, Vibe: v}, nil
}
