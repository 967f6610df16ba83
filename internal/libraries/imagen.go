package libraries

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/protobuf/types/known/structpb"
)

type predictFunc func(ctx context.Context, req *aiplatformpb.PredictRequest) (*aiplatformpb.PredictResponse, error)

// ImagenGenerator renders images with a Vertex AI Imagen model.
type ImagenGenerator struct {
	predict  predictFunc
	endpoint string
}

func NewImagenGenerator(client *aiplatform.PredictionClient, projectID, region, modelID string) *ImagenGenerator {
	return &ImagenGenerator{
		predict: func(ctx context.Context, req *aiplatformpb.PredictRequest) (*aiplatformpb.PredictResponse, error) {
			return client.Predict(ctx, req)
		},
		endpoint: fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s", projectID, region, modelID),
	}
}

// Generate returns the bytes and MIME type of a single image for the prompt.
func (g *ImagenGenerator) Generate(ctx context.Context, prompt string) ([]byte, string, error) {
	instance, err := structpb.NewValue(map[string]interface{}{"prompt": prompt})
	if err != nil {
		return nil, "", fmt.Errorf("build instance: %w", err)
	}
	params, err := structpb.NewValue(map[string]interface{}{"sampleCount": 1})
	if err != nil {
		return nil, "", fmt.Errorf("build parameters: %w", err)
	}

	resp, err := g.predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:   g.endpoint,
		Instances:  []*structpb.Value{instance},
		Parameters: params,
	})
	if err != nil {
		return nil, "", fmt.Errorf("imagen predict: %w", err)
	}
	if len(resp.GetPredictions()) == 0 {
		return nil, "", errors.New("imagen returned no predictions")
	}

	fields := resp.GetPredictions()[0].GetStructValue().GetFields()
	encoded := fields["bytesBase64Encoded"].GetStringValue()
	if encoded == "" {
		return nil, "", errors.New("imagen prediction has no image bytes")
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("decode image bytes: %w", err)
	}

	mimeType := fields["mimeType"].GetStringValue()
	if mimeType == "" {
		mimeType = "image/png"
	}
	return data, mimeType, nil
}
