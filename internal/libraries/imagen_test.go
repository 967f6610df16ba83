package libraries

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestImagenGenerator_Generate(t *testing.T) {
	var gotReq *aiplatformpb.PredictRequest
	pred, err := structpb.NewValue(map[string]interface{}{
		"bytesBase64Encoded": base64.StdEncoding.EncodeToString([]byte("png-bytes")),
		"mimeType":           "image/webp",
	})
	require.NoError(t, err)

	g := &ImagenGenerator{
		endpoint: "projects/p/locations/l/publishers/google/models/m",
		predict: func(ctx context.Context, req *aiplatformpb.PredictRequest) (*aiplatformpb.PredictResponse, error) {
			gotReq = req
			return &aiplatformpb.PredictResponse{Predictions: []*structpb.Value{pred}}, nil
		},
	}

	data, mime, err := g.Generate(context.Background(), "a lighthouse at dusk")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, "image/webp", mime)
	assert.Equal(t, "projects/p/locations/l/publishers/google/models/m", gotReq.Endpoint)
	assert.Equal(t, "a lighthouse at dusk", gotReq.Instances[0].GetStructValue().GetFields()["prompt"].GetStringValue())
}

func TestImagenGenerator_Errors(t *testing.T) {
	g := &ImagenGenerator{predict: func(ctx context.Context, req *aiplatformpb.PredictRequest) (*aiplatformpb.PredictResponse, error) {
		return nil, errors.New("permission denied")
	}}
	_, _, err := g.Generate(context.Background(), "x")
	assert.ErrorContains(t, err, "permission denied")

	g.predict = func(ctx context.Context, req *aiplatformpb.PredictRequest) (*aiplatformpb.PredictResponse, error) {
		return &aiplatformpb.PredictResponse{}, nil
	}
	_, _, err = g.Generate(context.Background(), "x")
	assert.EqualError(t, err, "imagen returned no predictions")
}

func TestDecodeCredentials(t *testing.T) {
	_, err := DecodeCredentials("")
	assert.Error(t, err)

	got, err := DecodeCredentials(base64.StdEncoding.EncodeToString([]byte(`{"type":"service_account"}`)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(got))
}
