package libraries

import (
	"context"
	"encoding/base64"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type Clients struct {
	GCS          *storage.Client
	Vertex       *aiplatform.PredictionClient
	ProjectID    string
	VertexRegion string
	// service account JSON, shared with the Vertex hosted completion client
	Credentials []byte
}

type GCPConfig struct {
	EncodedCredentials string // base64 encoded service account JSON
	ProjectID          string
	VertexRegion       string
}

// DecodeCredentials turns the base64 service account env value into JSON.
func DecodeCredentials(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, fmt.Errorf("GCP_SERVICE_ACCOUNT_CREDENTIALS not set")
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode service account json: %w", err)
	}
	return decoded, nil
}

func NewClients(ctx context.Context, cfg GCPConfig) (*Clients, error) {
	decoded, err := DecodeCredentials(cfg.EncodedCredentials)
	if err != nil {
		return nil, err
	}
	credOpt := option.WithCredentialsJSON(decoded)

	gcsClient, err := storage.NewClient(ctx, credOpt)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}

	// prediction calls must go to the regional endpoint
	vertexClient, err := aiplatform.NewPredictionClient(ctx, credOpt,
		option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", cfg.VertexRegion)))
	if err != nil {
		gcsClient.Close()
		return nil, fmt.Errorf("vertex.NewPredictionClient: %w", err)
	}

	return &Clients{
		GCS:          gcsClient,
		Vertex:       vertexClient,
		ProjectID:    cfg.ProjectID,
		VertexRegion: cfg.VertexRegion,
		Credentials:  decoded,
	}, nil
}

func (c *Clients) Close() {
	c.GCS.Close()
	c.Vertex.Close()
}
