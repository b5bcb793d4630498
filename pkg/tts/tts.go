package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	defaultVoiceID = "EXAVITQu4vr4xnSDxMaL"
	defaultModelID = "eleven_turbo_v2_5"
)

type ITTS interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type ttsClient struct {
	apiKey  string
	voiceID string
	modelID string
	client  *http.Client
}

func New() (ITTS, error) {
	apiKey := os.Getenv("ELEVENLABS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY not set")
	}

	voiceID := os.Getenv("ELEVENLABS_VOICE_ID")
	if voiceID == "" {
		voiceID = defaultVoiceID
	}

	modelID := os.Getenv("ELEVENLABS_MODEL_ID")
	if modelID == "" {
		modelID = defaultModelID
	}

	return &ttsClient{
		apiKey:  apiKey,
		voiceID: voiceID,
		modelID: modelID,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Synthesize renders the text as MP3 audio through the ElevenLabs API.
func (t *ttsClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	url := "https://api.elevenlabs.io/v1/text-to-speech/" + t.voiceID

	requestBody := map[string]interface{}{
		"text":     text,
		"model_id": t.modelID,
		"voice_settings": map[string]interface{}{
			"stability":         0.5,
			"similarity_boost":  0.8,
			"style":             0.0,
			"use_speaker_boost": true,
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ElevenLabs API error: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
