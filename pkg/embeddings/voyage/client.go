package voyage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/tmc/langchaingo/embeddings"
)

const (
	DefaultBaseURL = "https://api.voyageai.com/v1"
	DefaultModel   = "voyage-multimodal-3.5"
)

// InputType tells Voyage whether an input is a search query or an indexed
// document. Queries and documents are embedded asymmetrically, so indexing
// and searching must pass different values.
type InputType string

const (
	InputTypeQuery    InputType = "query"
	InputTypeDocument InputType = "document"
)

// Client calls the Voyage AI multimodal embeddings endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

var _ embeddings.Embedder = (*Client)(nil)

type Option func(c *Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Model() string {
	return c.model
}

// ContentItem is one piece of a multimodal input: text or a base64 image.
type ContentItem struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

// Input is a sequence of interleaved text and images embedded as a single vector.
type Input struct {
	Content []ContentItem `json:"content"`
}

func TextInput(text string) Input {
	return Input{Content: []ContentItem{{Type: "text", Text: text}}}
}

// ImageInput wraps an image given as a data URI (data:image/jpeg;base64,...).
func ImageInput(dataURI string) Input {
	return Input{Content: []ContentItem{{Type: "image_base64", ImageBase64: dataURI}}}
}

type multimodalRequest struct {
	Inputs    []Input   `json:"inputs"`
	Model     string    `json:"model"`
	InputType InputType `json:"input_type,omitempty"`
}

type embeddingData struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type multimodalResponse struct {
	Object string          `json:"object"`
	Data   []embeddingData `json:"data"`
	Model  string          `json:"model"`
	Usage  struct {
		TextTokens  int `json:"text_tokens"`
		ImagePixels int `json:"image_pixels"`
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Embed returns one vector per input, in input order.
func (c *Client) Embed(ctx context.Context, inputs []Input, inputType InputType) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}

	jsonData, err := json.Marshal(multimodalRequest{
		Inputs:    inputs,
		Model:     c.model,
		InputType: inputType,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/multimodalembeddings", bytes.NewReader(jsonData))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send request")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Detail != "" {
			return nil, errors.Errorf("voyage AI API error (status %d): %s", resp.StatusCode, apiErr.Detail)
		}
		return nil, errors.Errorf("voyage AI API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var voyageResp multimodalResponse
	if err := json.Unmarshal(body, &voyageResp); err != nil {
		return nil, errors.Wrapf(err, "failed to parse response")
	}
	if len(voyageResp.Data) != len(inputs) {
		return nil, errors.Errorf("voyage AI returned %d embeddings for %d inputs", len(voyageResp.Data), len(inputs))
	}

	sort.Slice(voyageResp.Data, func(i, j int) bool {
		return voyageResp.Data[i].Index < voyageResp.Data[j].Index
	})
	return lo.Map(voyageResp.Data, func(d embeddingData, _ int) []float32 {
		return d.Embedding
	}), nil
}

// EmbedImages embeds each data URI as its own input.
func (c *Client) EmbedImages(ctx context.Context, dataURIs []string, inputType InputType) ([][]float32, error) {
	return c.Embed(ctx, lo.Map(dataURIs, func(uri string, _ int) Input {
		return ImageInput(uri)
	}), inputType)
}

// EmbedQuery embeds a free-text search query in query mode.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []Input{TextInput(text)}, InputTypeQuery)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedDocuments embeds texts in document mode.
func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return c.Embed(ctx, lo.Map(texts, func(text string, _ int) Input {
		return TextInput(text)
	}), InputTypeDocument)
}
