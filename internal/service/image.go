package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dashunya17/CookingBenefits/config"
)

// ImageService stores recipe photos in S3
type ImageService struct {
	s3Config *config.S3Config
	logger   *zap.Logger
}

func NewImageService(s3Config *config.S3Config, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{
		s3Config: s3Config,
		logger:   logger,
	}
}

// UploadRecipeImage uploads image data under a recipe-scoped key and returns
// the public URL to store on the recipe.
func (s *ImageService) UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, imageData []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	key := fmt.Sprintf("recipe-images/%s/%s", recipeID, uuid.New())

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	s.logger.Info("uploaded recipe image",
		zap.String("recipe_id", recipeID.String()),
		zap.String("url", publicURL),
	)
	return publicURL, nil
}
