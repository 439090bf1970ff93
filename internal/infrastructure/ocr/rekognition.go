package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/rs/zerolog/log"

	"github.com/ecocart/backend/internal/domain"
	"github.com/ecocart/backend/internal/infrastructure/imaging"
)

// detectTextAPI is the part of the Rekognition client used here
type detectTextAPI interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// Extractor runs text detection through AWS Rekognition
type Extractor struct {
	client detectTextAPI
}

// NewExtractor loads the default AWS credential chain for region
func NewExtractor(ctx context.Context, region string) (*Extractor, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}
	return &Extractor{client: rekognition.NewFromConfig(awsCfg)}, nil
}

// ExtractText returns every detected line of text joined with newlines.
// The upload is decoded locally first so malformed files never reach AWS;
// formats Rekognition does not accept are re-encoded as PNG.
func (e *Extractor) ExtractText(ctx context.Context, imageData []byte) (string, error) {
	img, format, err := imaging.Decode(imageData)
	if err != nil {
		return "", err
	}

	payload := imageData
	if format != "jpeg" && format != "png" {
		if payload, err = imaging.EncodePNG(img); err != nil {
			return "", err
		}
	}

	out, err := e.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: payload},
	})
	if err != nil {
		return "", fmt.Errorf("%w: text detection failed: %v", domain.ErrUpstreamUnreachable, err)
	}

	lines := make([]string, 0, len(out.TextDetections))
	for _, d := range out.TextDetections {
		if d.Type != types.TextTypesLine {
			continue
		}
		if text := aws.ToString(d.DetectedText); text != "" {
			lines = append(lines, text)
		}
	}

	log.Debug().Int("lines", len(lines)).Str("format", format).Msg("Text detected")
	return strings.Join(lines, "\n"), nil
}
