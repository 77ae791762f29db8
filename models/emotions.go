package models

// 分类器输出的固定情绪集合
const (
	EmotionHappy    = "happy"
	EmotionSad      = "sad"
	EmotionAngry    = "angry"
	EmotionFear     = "fear"
	EmotionSurprise = "surprise"
	EmotionDisgust  = "disgust"
	EmotionNeutral  = "neutral"
)

// SupportedEmotions 后端统一的情绪枚举，检测结果只会落在这个集合内
var SupportedEmotions = []string{
	EmotionHappy,
	EmotionSad,
	EmotionAngry,
	EmotionFear,
	EmotionSurprise,
	EmotionDisgust,
	EmotionNeutral,
}

// 客户端同义词到统一枚举的映射
var emotionSynonyms = map[string]string{
	"calm":    EmotionNeutral,
	"anxious": EmotionFear,
}

// IsSupportedEmotion 判断是否属于统一情绪枚举
func IsSupportedEmotion(emotion string) bool {
	for _, e := range SupportedEmotions {
		if e == emotion {
			return true
		}
	}
	return false
}

// NormalizeEmotion 将客户端扩展词汇（calm/anxious）归一到统一枚举
func NormalizeEmotion(emotion string) string {
	if mapped, ok := emotionSynonyms[emotion]; ok {
		return mapped
	}
	return emotion
}
