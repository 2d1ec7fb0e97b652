package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Telegram delivers messages through the Bot API. Messages with an image
// go out as a photo with caption, the rest as plain text.
type Telegram struct {
	httpClient *http.Client
	baseURL    string
	token      string
	chatID     string
}

// NewTelegram creates a Telegram notifier for one chat.
func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: "https://api.telegram.org",
		token:   token,
		chatID:  chatID,
	}
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (t *Telegram) Send(ctx context.Context, msg Message) error {
	method := "sendMessage"
	payload := map[string]any{
		"chat_id": t.chatID,
	}
	if msg.ImageURL != "" {
		method = "sendPhoto"
		payload["photo"] = msg.ImageURL
		payload["caption"] = msg.Text
	} else {
		payload["text"] = msg.Text
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", t.baseURL, t.token, method)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		errMsg := string(raw)
		if len(errMsg) > 200 {
			errMsg = errMsg[:200] + "..."
		}
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, errMsg)
	}

	var response telegramResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !response.OK {
		return fmt.Errorf("telegram API returned non-ok: %s", response.Description)
	}
	return nil
}
