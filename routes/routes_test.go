package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"NeuroMirrorGo/config"
	"NeuroMirrorGo/models"
	"NeuroMirrorGo/services"
	"NeuroMirrorGo/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.Logger = zap.NewNop().Sugar()
	os.Exit(m.Run())
}

type stubClassifier struct{}

func (s *stubClassifier) Classify(ctx context.Context, image []byte) (services.EmotionDistribution, error) {
	return services.EmotionDistribution{models.EmotionNeutral: 0.9}, nil
}

func (s *stubClassifier) DetectFace(ctx context.Context, image []byte) (bool, error) {
	return true, nil
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.MoodRecord{},
		&models.ChatMessage{},
		&models.SuggestionRecord{},
	))
	config.DB = db

	r := gin.New()
	RegisterRoutes(r, &stubClassifier{},
		services.NewChatService(nil),
		services.NewSuggestionService(nil, 0))
	return r
}

func TestHealthIdempotent(t *testing.T) {
	r := setupRouter(t)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, false, body["gemini_configured"])
	}

	// 反复探活不改变任何状态
	var count int64
	require.NoError(t, config.DB.Model(&models.MoodRecord{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, config.DB.Model(&models.ChatMessage{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateSession(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response models.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response.SessionID)
	require.NotEmpty(t, response.Token)

	// 令牌能解析回同一个会话ID
	claims, err := utils.ParseToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, response.SessionID, claims.SessionID)
}

func TestTokenBoundSession(t *testing.T) {
	r := setupRouter(t)

	// 签发会话并在该会话下埋一条记录
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var session models.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	record := models.MoodRecord{
		Emotion:    models.EmotionHappy,
		Confidence: 0.9,
		Timestamp:  time.Now().UTC(),
		SessionID:  session.SessionID,
	}
	require.NoError(t, config.DB.Create(&record).Error)

	// 只带令牌不带query参数，也能按绑定会话查询
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/mood-history", nil)
	req2.Header.Set("Authorization", "Bearer "+session.Token)
	r.ServeHTTP(w2, req2)
	require.Equal(t, http.StatusOK, w2.Code)

	var history models.MoodHistoryResponse
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &history))
	require.Len(t, history.History, 1)
	assert.Equal(t, models.EmotionHappy, history.History[0].Emotion)
}

func TestInvalidTokenRejected(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/mood-history", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
