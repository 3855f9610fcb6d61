package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vibewire/application/services"
	"vibewire/domain/config"
	"vibewire/domain/packet"
	"vibewire/domain/state"
	"vibewire/domain/vibe"
	"vibewire/infrastructure/messaging"
	"vibewire/infrastructure/persistence/memory"
	"vibewire/pkg/observability"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestRouter wires the handlers against real services and the in-memory
// store, close to how the application assembles them.
func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	cfg := config.DefaultDomainConfig()
	logger := zap.NewNop()
	detector := vibe.NewDetector(cfg)
	humor := vibe.NewHumor()
	safety := vibe.NewSafetyFilter(humor, cfg)
	store := memory.NewStateStore()
	metrics := observability.NewMetrics("vibewire_handler_test")

	vibeService := services.NewVibeService(detector, humor, safety, cfg, logger)
	packetService := services.NewPacketService(
		packet.NewFactory(detector, cfg),
		safety,
		state.NewMachine(cfg),
		store,
		messaging.NewNoopNotifier(logger),
		metrics,
		logger,
	)
	timelineService := services.NewTimelineService(store, state.NewAggregator(cfg), cfg, logger)

	r := chi.NewRouter()
	vibeHandler := NewVibeHandler(vibeService, logger)
	packetHandler := NewPacketHandler(packetService, logger)
	stateHandler := NewStateHandler(timelineService, logger)

	r.Post("/api/v1/vibes/analyze", vibeHandler.Analyze)
	r.Post("/api/v1/packets", packetHandler.Send)
	r.Get("/api/v1/recipients/{recipientID}/state", stateHandler.GetState)
	r.Get("/api/v1/recipients/{recipientID}/timeline", stateHandler.GetTimeline)
	return r
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    json.RawMessage        `json:"data"`
	Error   map[string]interface{} `json:"error"`
}

func doJSON(t *testing.T, router chi.Router, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestVibeHandler_Analyze_Success(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/vibes/analyze", map[string]interface{}{
		"text": "so excited for tonight!!",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var result services.AnalyzeResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Vibe.Complete())
	assert.Greater(t, result.Vibe.Score(vibe.DimensionExcitement), 0)
}

func TestVibeHandler_Analyze_EmptyTextRejected(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/vibes/analyze", map[string]interface{}{
		"text": "",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION", env.Error["code"])
}

func TestVibeHandler_Analyze_MalformedBodyRejected(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/vibes/analyze", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPacketHandler_Send_Success(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/packets", map[string]interface{}{
		"text":        "running five minutes late, sorry!",
		"senderId":    "sender-1",
		"recipientId": "recipient-1",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	var result services.SendResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.False(t, result.Blocked)
	require.NotNil(t, result.State)
	assert.Equal(t, "recipient-1", result.State.RecipientID)
}

func TestPacketHandler_Send_MissingSenderRejected(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/packets", map[string]interface{}{
		"text": "hello",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestPacketHandler_Send_NegativeExpiryRejected(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/packets", map[string]interface{}{
		"text":             "hello",
		"senderId":         "sender-1",
		"expiresInSeconds": -1,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION", env.Error["code"])
}

func TestPacketHandler_Send_BlockedReturnsOK(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/packets", map[string]interface{}{
		"text":        "per my last message, like i said, whatever works",
		"senderId":    "sender-1",
		"recipientId": "recipient-1",
		"block":       map[string]bool{"passiveAggressive": true},
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var result services.SendResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Blocked)
	assert.Nil(t, result.State)
}

func TestStateHandler_GetState_UnknownRecipient(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/recipients/nobody/state", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestStateHandler_GetState_AfterPacket(t *testing.T) {
	router := newTestRouter(t)

	_, _ = doJSON(t, router, http.MethodPost, "/api/v1/packets", map[string]interface{}{
		"text":        "love it, thanks, you are the best, so happy, appreciate it",
		"senderId":    "sender-1",
		"recipientId": "recipient-2",
	})

	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/recipients/recipient-2/state", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var st state.State
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Equal(t, "recipient-2", st.RecipientID)
	assert.Greater(t, st.Current[vibe.DimensionWarmth], 50)
}

func TestStateHandler_GetTimeline_UnknownRecipientIsEmpty(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/recipients/nobody/timeline", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		RecipientID string                 `json:"recipientId"`
		Buckets     []state.TimelineBucket `json:"buckets"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "nobody", payload.RecipientID)
	assert.Empty(t, payload.Buckets)
}

func TestStateHandler_GetTimeline_AfterPackets(t *testing.T) {
	router := newTestRouter(t)

	for i := 0; i < 3; i++ {
		_, _ = doJSON(t, router, http.MethodPost, "/api/v1/packets", map[string]interface{}{
			"text":        "quick check-in, all good here",
			"senderId":    "sender-1",
			"recipientId": "recipient-3",
		})
	}

	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/recipients/recipient-3/timeline", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Buckets []state.TimelineBucket `json:"buckets"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.NotEmpty(t, payload.Buckets)
	for _, b := range payload.Buckets {
		for _, d := range vibe.Dimensions {
			assert.GreaterOrEqual(t, b.AvgScores[d], 0)
			assert.LessOrEqual(t, b.AvgScores[d], 100)
		}
	}
}
