package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/openshelf/shelfscan/internal/geometry"
)

// Client talks to the vision sidecar services over HTTP. The OCR
// service exposes /find_text and the detector service /find_books;
// both accept a base64-encoded image and reply with JSON results.
type Client struct {
	ocrURL      string
	detectorURL string
	httpClient  *http.Client
}

// NewClient creates a vision client from the given service base URLs.
func NewClient(ocrURL, detectorURL string) *Client {
	return &Client{
		ocrURL:      ocrURL,
		detectorURL: detectorURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// NewClientFromEnv creates a vision client configured by OCR_SERVICE_URL
// and DETECTOR_SERVICE_URL, with localhost defaults.
func NewClientFromEnv() *Client {
	ocrURL := os.Getenv("OCR_SERVICE_URL")
	if ocrURL == "" {
		ocrURL = "http://localhost:8501"
	}
	detectorURL := os.Getenv("DETECTOR_SERVICE_URL")
	if detectorURL == "" {
		detectorURL = "http://localhost:8502"
	}
	return NewClient(ocrURL, detectorURL)
}

// FindText sends the image to the OCR service and returns the
// recognized text regions.
func (c *Client) FindText(ctx context.Context, img Image) ([]RecognizedText, error) {
	var response struct {
		Results []struct {
			Text       string      `json:"text"`
			Corners    [][]float64 `json:"corners"`
			Confidence float64     `json:"confidence"`
		} `json:"results"`
	}

	if err := c.post(ctx, c.ocrURL+"/find_text", img, &response); err != nil {
		return nil, fmt.Errorf("failed to recognize text: %w", err)
	}

	texts := make([]RecognizedText, 0, len(response.Results))
	for _, r := range response.Results {
		if len(r.Corners) != 4 {
			slog.Warn("Skipping text with malformed corners", "text", r.Text, "corners", len(r.Corners))
			continue
		}
		var quad geometry.Quad
		ok := true
		for i, p := range r.Corners {
			if len(p) != 2 {
				ok = false
				break
			}
			quad[i] = geometry.Point{X: p[0], Y: p[1]}
		}
		if !ok {
			slog.Warn("Skipping text with malformed corner point", "text", r.Text)
			continue
		}
		texts = append(texts, RecognizedText{
			Text:       r.Text,
			Corners:    quad,
			Confidence: r.Confidence,
		})
	}

	slog.Debug("Recognized text", "count", len(texts))
	return texts, nil
}

// FindBooks sends the image to the detector service and returns the
// detected book regions. An empty slice means no books were found.
func (c *Client) FindBooks(ctx context.Context, img Image) ([]DetectedRegion, error) {
	var response struct {
		Results []DetectedRegion `json:"results"`
	}

	if err := c.post(ctx, c.detectorURL+"/find_books", img, &response); err != nil {
		return nil, fmt.Errorf("failed to detect books: %w", err)
	}

	slog.Debug("Detected book regions", "count", len(response.Results))
	return response.Results, nil
}

func (c *Client) post(ctx context.Context, url string, img Image, out any) error {
	requestBody, err := json.Marshal(map[string]any{
		"image":  base64.StdEncoding.EncodeToString(img.Data),
		"width":  img.Width,
		"height": img.Height,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call vision service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("vision service returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode vision response: %w", err)
	}

	return nil
}
