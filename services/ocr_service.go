package services

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

type OCRService struct {
	client *rekognition.Client
}

func NewOCRService() (*OCRService, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, err
	}
	return &OCRService{client: rekognition.NewFromConfig(cfg)}, nil
}

// DetectLabelText runs text detection over a base64-encoded label photo and
// returns the detected lines joined with newlines, top to bottom as
// Rekognition reports them. Only LINE detections are kept; WORD detections
// duplicate their parent lines.
func (o *OCRService) DetectLabelText(base64Img string) (string, error) {
	idx := len("data:image/jpeg;base64,")
	if idx > len(base64Img) || !strings.HasPrefix(base64Img, "data:image") {
		return "", errors.New("invalid data URI")
	}
	data, err := base64.StdEncoding.DecodeString(base64Img[idx:])
	if err != nil {
		return "", err
	}

	out, err := o.client.DetectText(context.TODO(), &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: data},
	})
	if err != nil {
		return "", err
	}

	var lines []string
	for _, d := range out.TextDetections {
		if d.Type != types.TextTypesLine || d.DetectedText == nil {
			continue
		}
		lines = append(lines, *d.DetectedText)
	}
	return strings.Join(lines, "\n"), nil
}
