package services

import (
	"context"
	"fmt"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"NeuroMirrorGo/models"
)

// VisionClassifier 基于Google Cloud Vision人脸标注的情绪分类实现
type VisionClassifier struct {
	client  *vision.ImageAnnotatorClient
	timeout time.Duration
}

// NewVisionClassifier 创建Vision分类器，credentialsFile为空时使用默认ADC
func NewVisionClassifier(ctx context.Context, credentialsFile string) (*VisionClassifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}

	return &VisionClassifier{
		client:  client,
		timeout: 10 * time.Second,
	}, nil
}

// Classify 对图片做完整情绪分类
func (vc *VisionClassifier) Classify(ctx context.Context, image []byte) (EmotionDistribution, error) {
	face, err := vc.annotateFace(ctx, image)
	if err != nil {
		return nil, err
	}
	if face == nil {
		return nil, ErrNoFaceDetected
	}

	return likelihoodsToDistribution(face), nil
}

// DetectFace 只做人脸存在性检查，不做情绪映射
func (vc *VisionClassifier) DetectFace(ctx context.Context, image []byte) (bool, error) {
	face, err := vc.annotateFace(ctx, image)
	if err != nil {
		return false, err
	}
	return face != nil, nil
}

// annotateFace 调用Vision人脸标注，返回首个人脸，无人脸时返回nil
func (vc *VisionClassifier) annotateFace(ctx context.Context, image []byte) (*visionpb.FaceAnnotation, error) {
	ctx, cancel := context.WithTimeout(ctx, vc.timeout)
	defer cancel()

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_FACE_DETECTION, MaxResults: 1},
				},
			},
		},
	}

	resp, err := vc.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: vision调用超时: %v", ErrClassifier, err)
		}
		return nil, fmt.Errorf("%w: vision BatchAnnotateImages: %v", ErrClassifier, err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return nil, fmt.Errorf("%w: vision返回空响应", ErrClassifier)
	}

	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return nil, fmt.Errorf("%w: vision annotate error: %s", ErrClassifier, r0.Error.Message)
	}

	if len(r0.FaceAnnotations) == 0 {
		return nil, nil
	}
	return r0.FaceAnnotations[0], nil
}

// Close 关闭底层客户端
func (vc *VisionClassifier) Close() error {
	if vc.client != nil {
		return vc.client.Close()
	}
	return nil
}

// likelihoodScore 将Vision的似然枚举映射为数值分数
func likelihoodScore(l visionpb.Likelihood) float64 {
	switch l {
	case visionpb.Likelihood_VERY_LIKELY:
		return 0.95
	case visionpb.Likelihood_LIKELY:
		return 0.75
	case visionpb.Likelihood_POSSIBLE:
		return 0.5
	case visionpb.Likelihood_UNLIKELY:
		return 0.2
	case visionpb.Likelihood_VERY_UNLIKELY:
		return 0.05
	default:
		return 0
	}
}

// likelihoodsToDistribution 把人脸标注的各项似然归一化为情绪分布。
// Vision不区分fear/disgust，两者得分恒为0；所有表情似然都很低时视为neutral。
func likelihoodsToDistribution(face *visionpb.FaceAnnotation) EmotionDistribution {
	scores := EmotionDistribution{
		models.EmotionHappy:    likelihoodScore(face.JoyLikelihood),
		models.EmotionSad:      likelihoodScore(face.SorrowLikelihood),
		models.EmotionAngry:    likelihoodScore(face.AngerLikelihood),
		models.EmotionSurprise: likelihoodScore(face.SurpriseLikelihood),
		models.EmotionFear:     0,
		models.EmotionDisgust:  0,
	}

	var maxExpressive float64
	for _, s := range scores {
		if s > maxExpressive {
			maxExpressive = s
		}
	}
	scores[models.EmotionNeutral] = 1 - maxExpressive

	// 归一化，使分布总和为1
	var sum float64
	for _, s := range scores {
		sum += s
	}
	if sum > 0 {
		for emotion, s := range scores {
			scores[emotion] = s / sum
		}
	}

	return scores
}
