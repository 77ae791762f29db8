package controllers

import (
	"NeuroMirrorGo/config"
	"NeuroMirrorGo/models"
	"NeuroMirrorGo/services"
	"errors"
	"math"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// DetectController 情绪检测控制器
type DetectController struct {
	classifier  services.EmotionClassifier
	suggestions *services.SuggestionService
	wg          sync.WaitGroup
}

func NewDetectController(classifier services.EmotionClassifier, suggestions *services.SuggestionService) *DetectController {
	return &DetectController{
		classifier:  classifier,
		suggestions: suggestions,
	}
}

// DetectMood 处理情绪检测请求
func (dc *DetectController) DetectMood(ctx *gin.Context) {
	var request models.DetectRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
		return
	}

	image, err := services.DecodeBase64Image(request.Image)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image format"})
		return
	}

	distribution, err := dc.classifier.Classify(ctx.Request.Context(), image)
	if err != nil {
		// 无人脸是正常业务结果，不落库，客户端可换帧重试
		if errors.Is(err, services.ErrNoFaceDetected) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "No face detected"})
			return
		}
		config.Logger.Errorw("情绪分类失败", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "情绪识别服务暂不可用"})
		return
	}

	emotion, confidence := distribution.Dominant()
	confidence = math.Round(confidence*100) / 100
	sessionID := resolveSessionID(ctx, request.SessionID)

	// 持久化失败不阻塞已算出的分类结果，尽力写入
	record := models.MoodRecord{
		Emotion:    emotion,
		Confidence: confidence,
		SessionID:  sessionID,
	}
	if err := config.DB.Create(&record).Error; err != nil {
		config.Logger.Errorw("情绪记录写入失败", "error", err, "sessionID", sessionID)
	}

	suggestion := dc.suggestions.GetSuggestion(ctx.Request.Context(), emotion)

	// 建议审计记录异步写入，关闭时由Wait统一排空
	dc.wg.Add(1)
	go func() {
		defer dc.wg.Done()
		suggestionRecord := models.SuggestionRecord{
			Emotion:  emotion,
			Message:  suggestion.Message,
			Tip:      suggestion.Tip,
			Activity: suggestion.Activity,
			Sound:    suggestion.Sound,
		}
		if err := config.DB.Create(&suggestionRecord).Error; err != nil {
			config.Logger.Errorw("建议记录写入失败", "error", err, "emotion", emotion)
		}
	}()

	ctx.JSON(http.StatusOK, models.DetectResponse{
		Emotion:    emotion,
		Confidence: confidence,
		Message:    suggestion.Message,
		Tip:        suggestion.Tip,
		Activity:   suggestion.Activity,
		Sound:      suggestion.Sound,
	})
}

// CheckFace 只做人脸存在性检查，供客户端轮询，不写任何记录
func (dc *DetectController) CheckFace(ctx *gin.Context) {
	var request models.CheckFaceRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
		return
	}

	image, err := services.DecodeBase64Image(request.Image)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image format"})
		return
	}

	detected, err := dc.classifier.DetectFace(ctx.Request.Context(), image)
	if err != nil {
		config.Logger.Errorw("人脸检查失败", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "人脸检查服务暂不可用"})
		return
	}

	ctx.JSON(http.StatusOK, models.CheckFaceResponse{FaceDetected: detected})
}

// Wait 等待后台写入全部完成，用于优雅关闭
func (dc *DetectController) Wait() {
	dc.wg.Wait()
}
