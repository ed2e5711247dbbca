package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultEndpoint = "https://api.openai.com/v1"
	defaultModel    = "gpt-4-turbo-preview"
)

// Client is an OpenAI-compatible chat-completions client that forces the
// model to answer through a yes_or_no tool call, so the response shape is
// machine-checkable rather than parsed out of prose.
type Client struct {
	endpoint    string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// NewClient creates an oracle client. Empty endpoint and model fall back
// to the OpenAI defaults.
func NewClient(endpoint, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ai: API key is not set")
	}
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		endpoint:    endpoint,
		apiKey:      apiKey,
		model:       model,
		maxTokens:   300,
		temperature: 0.7,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type functionDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type tool struct {
	Type     string      `json:"type"`
	Function functionDef `json:"function"`
}

type toolChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type chatRequest struct {
	Model       string     `json:"model"`
	Messages    []message  `json:"messages"`
	Tools       []tool     `json:"tools"`
	ToolChoice  toolChoice `json:"tool_choice"`
	MaxTokens   int        `json:"max_tokens"`
	Temperature float64    `json:"temperature"`
	User        string     `json:"user,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// yesOrNoSchema is the JSON schema of the forced tool call. The
// whyNot dependency rule is additionally enforced client-side in
// validate, since not every backend honors schema dependencies.
var yesOrNoSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"response": {"type": "string", "enum": ["yes", "no"]},
		"whyNot": {"type": "string"}
	},
	"required": ["response"]
}`)

// YesOrNo asks the model a yes/no question about the user's input.
// The question rides in the system role and the raw input in the user
// role, so learner text is never interpreted as instructions.
func (c *Client) YesOrNo(ctx context.Context, userInput, question, subjectID string) (YesNo, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "user", Content: userInput},
			{Role: "system", Content: question},
		},
		Tools: []tool{{
			Type: "function",
			Function: functionDef{
				Name:        "yes_or_no",
				Description: "Answer a yes or no question.",
				Parameters:  yesOrNoSchema,
			},
		}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		User:        subjectID,
	}
	req.ToolChoice.Type = "function"
	req.ToolChoice.Function.Name = "yes_or_no"

	body, err := json.Marshal(req)
	if err != nil {
		return YesNo{}, fmt.Errorf("ai: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return YesNo{}, fmt.Errorf("ai: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return YesNo{}, fmt.Errorf("ai: failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return YesNo{}, fmt.Errorf("ai: failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return YesNo{}, fmt.Errorf("ai: unexpected status %d: %s", resp.StatusCode, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return YesNo{}, fmt.Errorf("ai: failed to decode response: %w", err)
	}
	if parsed.Error != nil {
		return YesNo{}, fmt.Errorf("ai: API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || len(parsed.Choices[0].Message.ToolCalls) == 0 {
		return YesNo{}, fmt.Errorf("%w: no tool call in response", ErrOracleProtocol)
	}

	var answer YesNo
	args := parsed.Choices[0].Message.ToolCalls[0].Function.Arguments
	if err := json.Unmarshal([]byte(args), &answer); err != nil {
		return YesNo{}, fmt.Errorf("%w: malformed tool arguments: %v", ErrOracleProtocol, err)
	}
	if err := validate(answer); err != nil {
		return YesNo{}, err
	}
	return answer, nil
}
