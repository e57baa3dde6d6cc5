package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bakuscan/models"
	"bakuscan/utils"
)

const (
	defaultEndpoint = "https://api.groq.com/openai/v1/chat/completions"

	// minConfidence is the floor below which an identification is treated
	// as no usable match.
	minConfidence = 0.3

	requestTimeout = 60 * time.Second
	maxTokens      = 1024
	temperature    = 0.3
)

const promptTemplate = `You are a Bakugan identification expert specializing in the original 2007-2012 toy line.

CATALOG OF KNOWN BAKUGAN:
%s

Analyze this image and identify the Bakugan. Respond in JSON format only:
{
    "name": "exact name from catalog",
    "series": "Battle Brawlers / New Vestroia / Gundalian Invaders / Mechtanium Surge",
    "attribute": "Pyrus / Aquos / Subterra / Haos / Darkus / Ventus",
    "g_power": estimated G-Power number (280-900),
    "rarity": "Common / Uncommon / Rare / Super Rare / Ultra Rare",
    "confidence": 0.0-1.0,
    "description": "brief description of identifying features"
}

If not a Bakugan or unclear, set confidence below 0.3 and name to "Unknown".`

// Client identifies Bakugan photos via the Groq chat-completions API.
// Construct it once at startup and reuse it; it is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	names      []string
	logger     *utils.Logger
}

// NewClient creates a Client bound to the given catalog of candidate names.
func NewClient(apiKey, model string, catalogNames []string, logger *utils.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		endpoint:   defaultEndpoint,
		apiKey:     apiKey,
		model:      model,
		names:      catalogNames,
		logger:     logger,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// modelReply mirrors the JSON the prompt asks for. GPower is decoded as a
// float because models occasionally emit "450.0".
type modelReply struct {
	Name        string  `json:"name"`
	Series      string  `json:"series"`
	Attribute   string  `json:"attribute"`
	GPower      float64 `json:"g_power"`
	Rarity      string  `json:"rarity"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
}

// Identify sends the photo and the closed candidate catalog to the vision
// model and parses its structured reply. It never returns an error: any
// failure degrades to a result named "Error" with a readable description,
// and a reply below the confidence floor is renamed "Unknown".
func (c *Client) Identify(ctx context.Context, imageBytes []byte) models.IdentificationResult {
	result, err := c.identify(ctx, imageBytes)
	if err != nil {
		c.logger.Error("[vision] Analysis failed: %v", err)
		return models.IdentificationResult{
			Name:        "Error",
			Confidence:  0.0,
			Description: err.Error(),
		}
	}

	if result.Confidence < minConfidence {
		result.Name = "Unknown"
	}
	return result
}

func (c *Client) identify(ctx context.Context, imageBytes []byte) (models.IdentificationResult, error) {
	var zero models.IdentificationResult

	if len(imageBytes) == 0 {
		return zero, errors.New("vision: empty image")
	}
	if c.apiKey == "" {
		return zero, errors.New("vision: missing API key")
	}

	encoded := base64.StdEncoding.EncodeToString(imageBytes)
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: fmt.Sprintf(promptTemplate, strings.Join(c.names, ", "))},
				{Type: "image_url", ImageURL: &imageURL{URL: "data:image/jpeg;base64," + encoded}},
			},
		}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return zero, fmt.Errorf("vision: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return zero, fmt.Errorf("vision: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("vision: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("vision: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return zero, fmt.Errorf("vision: model API returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return zero, fmt.Errorf("vision: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return zero, errors.New("vision: model returned no choices")
	}

	reply, err := extractReply(parsed.Choices[0].Message.Content)
	if err != nil {
		return zero, err
	}

	return models.IdentificationResult{
		Name:        reply.Name,
		Series:      reply.Series,
		Attribute:   reply.Attribute,
		GPower:      int(reply.GPower),
		Rarity:      reply.Rarity,
		Confidence:  reply.Confidence,
		Description: reply.Description,
	}, nil
}

// extractReply pulls the JSON object out of the model's text, which may be
// wrapped in prose or code fences.
func extractReply(content string) (*modelReply, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return nil, errors.New("vision: no JSON object in model reply")
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(content[start:end+1]), &reply); err != nil {
		return nil, fmt.Errorf("vision: parse model reply: %w", err)
	}
	if reply.Name == "" {
		return nil, errors.New("vision: model reply has no name")
	}
	return &reply, nil
}
