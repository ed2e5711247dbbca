// Package transcribe turns recorded learner audio into text. The engine
// depends only on the Transcriber interface; the HTTP client here talks
// to a Whisper-compatible transcription endpoint.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"
)

// Kind discriminates transcription outcomes.
type Kind int

const (
	OK Kind = iota + 1
	Error
)

// Result is the outcome of a transcription attempt. A Kind of Error means
// the recording could not be transcribed and the user should retry; no
// grade may be applied from it.
type Result struct {
	Kind Kind
	Text string
}

// Transcriber converts an audio payload to text in the given language.
type Transcriber interface {
	Transcribe(ctx context.Context, langCode string, audio []byte) Result
}

// Client is a Whisper-compatible speech-to-text client.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a transcription client. Empty endpoint and model fall
// back to the OpenAI defaults.
func NewClient(endpoint, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("transcribe: API key is not set")
	}
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "whisper-1"
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe sends the audio to the transcription endpoint. Failures are
// logged and folded into an Error result; the caller treats them as a
// retryable condition, not a grade.
func (c *Client) Transcribe(ctx context.Context, langCode string, audio []byte) Result {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", "answer.webm")
	if err != nil {
		log.Printf("transcribe: failed to build form: %v", err)
		return Result{Kind: Error}
	}
	if _, err := part.Write(audio); err != nil {
		log.Printf("transcribe: failed to write audio: %v", err)
		return Result{Kind: Error}
	}
	_ = mw.WriteField("model", c.model)
	_ = mw.WriteField("language", langCode)
	if err := mw.Close(); err != nil {
		log.Printf("transcribe: failed to finalize form: %v", err)
		return Result{Kind: Error}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/audio/transcriptions", &body)
	if err != nil {
		log.Printf("transcribe: failed to create request: %v", err)
		return Result{Kind: Error}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("transcribe: request failed: %v", err)
		return Result{Kind: Error}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("transcribe: failed to read response: %v", err)
		return Result{Kind: Error}
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("transcribe: unexpected status %d: %s", resp.StatusCode, respBody)
		return Result{Kind: Error}
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		log.Printf("transcribe: failed to decode response: %v", err)
		return Result{Kind: Error}
	}
	return Result{Kind: OK, Text: parsed.Text}
}
