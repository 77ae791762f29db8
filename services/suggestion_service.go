package services

import (
	"NeuroMirrorGo/config"
	"NeuroMirrorGo/models"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

const suggestionPrompt = `You are a compassionate AI therapist. A person is feeling %s.
Provide a therapeutic response with:
1. A supportive message (2-3 sentences)
2. A practical tip for managing this emotion
3. A suggested activity to help them feel better
4. A type of calming sound that would help (e.g., "ocean waves", "forest sounds", "gentle rain")

Be warm, empathetic, and professional. Focus on emotional regulation and self-care.
Keep each section concise but meaningful.

Format your response as JSON with keys: message, tip, activity, sound`

// SuggestionService 负责建议内容生成与缓存
type SuggestionService struct {
	client   *GeminiClient
	timeout  time.Duration
	cacheTTL time.Duration
}

func NewSuggestionService(client *GeminiClient, cacheTTL time.Duration) *SuggestionService {
	return &SuggestionService{
		client:   client,
		timeout:  30 * time.Second,
		cacheTTL: cacheTTL,
	}
}

// GetSuggestion 返回指定情绪的建议内容。优先读Redis缓存，未命中时调用
// Gemini生成，生成失败时回退到内置建议表，保证永远有结果。
func (s *SuggestionService) GetSuggestion(ctx context.Context, emotion string) models.SuggestionBundle {
	if cached, ok := s.readCache(ctx, emotion); ok {
		return cached
	}

	if s.client != nil {
		if bundle, err := s.generate(ctx, emotion); err == nil {
			s.writeCache(ctx, emotion, bundle)
			return bundle
		} else {
			config.Logger.Errorw("生成建议失败，使用内置建议", "error", err, "emotion", emotion)
		}
	}

	return FallbackSuggestion(emotion)
}

// generate 调用Gemini生成建议并解析JSON
func (s *SuggestionService) generate(ctx context.Context, emotion string) (models.SuggestionBundle, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(fmt.Sprintf(suggestionPrompt, emotion))},
		},
	}

	response, err := s.client.Model.GenerateContent(ctx, messages,
		llms.WithTemperature(0.7),
		llms.WithJSONMode(),
	)
	if err != nil {
		return models.SuggestionBundle{}, fmt.Errorf("%w: %v", ErrChatService, err)
	}
	if len(response.Choices) == 0 {
		return models.SuggestionBundle{}, fmt.Errorf("%w: 未生成有效内容", ErrChatService)
	}

	bundle, err := parseSuggestionJSON(response.Choices[0].Content)
	if err != nil {
		// 模型没有按JSON输出时退回通用建议，而不是报错
		config.Logger.Warnw("建议JSON解析失败，使用通用建议", "error", err, "emotion", emotion)
		return models.SuggestionBundle{
			Message:  "You're doing great by acknowledging your feelings. Every emotion is valid and temporary.",
			Tip:      "Take slow, deep breaths and remind yourself that this feeling will pass.",
			Activity: "Try a short mindfulness exercise or gentle movement.",
			Sound:    "calming nature sounds",
		}, nil
	}

	return bundle, nil
}

// parseSuggestionJSON 解析模型输出，容忍markdown代码块包裹
func parseSuggestionJSON(text string) (models.SuggestionBundle, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var bundle models.SuggestionBundle
	if err := json.Unmarshal([]byte(text), &bundle); err != nil {
		return models.SuggestionBundle{}, err
	}
	if bundle.Message == "" || bundle.Tip == "" {
		return models.SuggestionBundle{}, fmt.Errorf("建议内容缺少必要字段")
	}
	return bundle, nil
}

func suggestionCacheKey(emotion string) string {
	return "suggestion:" + emotion
}

// readCache 从Redis读取缓存的建议，Redis不可用时直接跳过
func (s *SuggestionService) readCache(ctx context.Context, emotion string) (models.SuggestionBundle, bool) {
	if config.RedisClient == nil || s.cacheTTL <= 0 {
		return models.SuggestionBundle{}, false
	}

	raw, err := config.RedisClient.Get(ctx, suggestionCacheKey(emotion)).Result()
	if err != nil {
		return models.SuggestionBundle{}, false
	}

	var bundle models.SuggestionBundle
	if err := json.Unmarshal([]byte(raw), &bundle); err != nil {
		return models.SuggestionBundle{}, false
	}
	return bundle, true
}

// writeCache 将生成的建议写入Redis，失败只记日志
func (s *SuggestionService) writeCache(ctx context.Context, emotion string, bundle models.SuggestionBundle) {
	if config.RedisClient == nil || s.cacheTTL <= 0 {
		return
	}

	raw, err := json.Marshal(bundle)
	if err != nil {
		return
	}
	if err := config.RedisClient.Set(ctx, suggestionCacheKey(emotion), raw, s.cacheTTL).Err(); err != nil {
		config.Logger.Warnw("建议缓存写入失败", "error", err, "emotion", emotion)
	}
}

// fallbackSuggestions 内置建议表，覆盖全部七种情绪
var fallbackSuggestions = map[string]models.SuggestionBundle{
	models.EmotionHappy: {
		Message:  "Your positive energy is wonderful! Embrace this joyful moment and let it fill you with warmth.",
		Tip:      "Share your happiness with others - positive emotions are contagious in the best way.",
		Activity: "Try dancing to your favorite song or call someone you care about.",
		Sound:    "uplifting nature sounds",
	},
	models.EmotionSad: {
		Message:  "It's completely okay to feel this way. Your emotions are valid, and you're not alone in this.",
		Tip:      "Allow yourself to feel without judgment. Sadness is a natural part of the human experience.",
		Activity: "Try gentle stretching, journaling, or listening to comforting music.",
		Sound:    "gentle rain",
	},
	models.EmotionAngry: {
		Message:  "Your feelings are valid. Let's channel this energy in a healthy, constructive way.",
		Tip:      "Physical movement can help release tension. Take deep breaths and count to ten.",
		Activity: "Try a brief walk outside, some deep breathing, or write down your thoughts.",
		Sound:    "flowing stream",
	},
	models.EmotionFear: {
		Message:  "You're braver than you feel right now. Fear is temporary, but your strength is lasting.",
		Tip:      "Ground yourself by focusing on what you can control in this moment.",
		Activity: "Practice the 5-4-3-2-1 grounding technique: 5 things you see, 4 you hear, 3 you feel, 2 you smell, 1 you taste.",
		Sound:    "peaceful forest",
	},
	models.EmotionSurprise: {
		Message:  "Life is full of unexpected moments. You're handling this surprise with grace.",
		Tip:      "Take a moment to process this new information. Surprises can lead to growth.",
		Activity: "Take a few mindful breaths and reflect on how you're feeling right now.",
		Sound:    "gentle wind chimes",
	},
	models.EmotionDisgust: {
		Message:  "Your boundaries and values are important. It's okay to feel this way about things that don't align with you.",
		Tip:      "Distance yourself from what's bothering you if possible, and focus on what brings you peace.",
		Activity: "Engage in something that brings you joy or comfort - perhaps a hobby or time in nature.",
		Sound:    "mountain breeze",
	},
	models.EmotionNeutral: {
		Message:  "A balanced state is a gift. You're centered and ready for whatever comes your way.",
		Tip:      "This is a perfect time for planning, reflection, or trying something new.",
		Activity: "Consider setting a small, achievable goal for today or practicing gratitude.",
		Sound:    "ambient peace",
	},
}

// FallbackSuggestion 返回内置建议，未知情绪按neutral处理
func FallbackSuggestion(emotion string) models.SuggestionBundle {
	if bundle, ok := fallbackSuggestions[emotion]; ok {
		return bundle
	}
	return fallbackSuggestions[models.EmotionNeutral]
}
