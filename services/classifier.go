package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"strings"

	// 注册JPEG/PNG解码器
	_ "image/jpeg"
	_ "image/png"
)

// 检测流程的错误类型
var (
	// ErrDecodeImage 输入图片损坏或格式不支持
	ErrDecodeImage = errors.New("invalid image format")
	// ErrNoFaceDetected 图片有效但未识别到人脸
	ErrNoFaceDetected = errors.New("no face detected")
	// ErrClassifier 外部分类服务调用失败或超时
	ErrClassifier = errors.New("classifier unavailable")
)

// EmotionDistribution 分类器输出的情绪分布，label -> score
type EmotionDistribution map[string]float64

// Dominant 返回分布中得分最高的情绪及其置信度，置信度收敛到[0,1]
func (d EmotionDistribution) Dominant() (string, float64) {
	var best string
	var bestScore float64
	for emotion, score := range d {
		if best == "" || score > bestScore {
			best = emotion
			bestScore = score
		}
	}
	if bestScore < 0 {
		bestScore = 0
	}
	if bestScore > 1 {
		bestScore = 1
	}
	return best, bestScore
}

// EmotionClassifier 外部人脸情绪分类能力接口，便于替换实现或在测试中打桩
type EmotionClassifier interface {
	// Classify 对图片做完整情绪分类，无人脸时返回ErrNoFaceDetected
	Classify(ctx context.Context, image []byte) (EmotionDistribution, error)
	// DetectFace 只做人脸存在性检查，供客户端高频轮询
	DetectFace(ctx context.Context, image []byte) (bool, error)
}

// DecodeBase64Image 解码base64图片并校验是否为合法的JPEG/PNG
func DecodeBase64Image(data string) ([]byte, error) {
	// 去掉data URL前缀
	if idx := strings.Index(data, ","); idx >= 0 {
		data = data[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, ErrDecodeImage
	}

	// 只解析图片头做廉价校验，不做完整解码
	if _, _, err := image.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return nil, ErrDecodeImage
	}

	return raw, nil
}
