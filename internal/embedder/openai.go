package embedder

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/spetr/coderag/pkg/types"
)

// Default values
const (
	DefaultModel     = "text-embedding-3-small"
	DefaultBatchSize = 100 // OpenAI supports up to 2048 inputs per request
)

// Dimensions for known models.
var modelDimensions = map[string]int{
	"text-embedding-ada-002": 1536,
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"nomic-embed-text":       768,
}

// OpenAIConfig contains OpenAI provider configuration.
type OpenAIConfig struct {
	Model      string
	APIKey     string // if empty, uses OPENAI_API_KEY env var
	BaseURL    string // optional: OpenAI-compatible endpoint (Ollama, Azure)
	BatchSize  int
	Dimensions int // 0 uses the known default for the model
}

// OpenAI implements Provider against any OpenAI-compatible embeddings API.
type OpenAI struct {
	config OpenAIConfig
	client *openai.Client
}

// NewOpenAI creates a new OpenAI embedding provider.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAI{
		config: cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

// Name returns the provider name.
func (p *OpenAI) Name() string {
	return "openai"
}

// Dimensions returns the embedding dimension for the configured model.
func (p *OpenAI) Dimensions() int {
	if p.config.Dimensions > 0 {
		return p.config.Dimensions
	}
	if d, ok := modelDimensions[p.config.Model]; ok {
		return d
	}
	return 1536
}

// Embed generates embeddings in batches, preserving input order.
func (p *OpenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += p.config.BatchSize {
		end := start + p.config.BatchSize
		if end > len(texts) {
			end = len(texts)
		}

		resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts[start:end],
			Model: openai.EmbeddingModel(p.config.Model),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrEmbeddingFailed, err)
		}
		if len(resp.Data) != end-start {
			return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", types.ErrEmbeddingFailed, len(resp.Data), end-start)
		}

		for _, d := range resp.Data {
			out = append(out, d.Embedding)
		}
	}

	return out, nil
}
