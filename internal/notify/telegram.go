// Package notify sends program-registry updates to Telegram.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/txscout/txscout/internal/registry"
)

// maxListed caps the programs named in one message so it stays under
// Telegram's length limit.
const maxListed = 20

// Telegram posts messages through the Bot API.
// NewTelegram returns nil when credentials are missing, so callers can
// nil-check instead of branching on config.
type Telegram struct {
	botToken string
	chatID   string
	baseURL  string // overridable for tests
	client   *http.Client
}

// NewTelegram creates a notifier. Returns nil if token or chat ID is empty.
func NewTelegram(botToken, chatID string) *Telegram {
	if botToken == "" || chatID == "" {
		return nil
	}
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  "https://api.telegram.org",
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// RegistryUpdate sends the "new programs detected" message: the count of
// new programs plus the top pending-review entries with Solscan links.
func (t *Telegram) RegistryUpdate(newCount int, pending []*registry.PendingProgram) error {
	return t.send(registryUpdateMessage(newCount, pending))
}

func (t *Telegram) send(text string) error {
	reqBody, _ := json.Marshal(sendMessageRequest{
		ChatID:                t.chatID,
		Text:                  text,
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	})

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	resp, err := t.client.Post(url, "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var result sendMessageResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("telegram response (HTTP %d): %s", resp.StatusCode, body)
	}
	if !result.OK {
		return fmt.Errorf("telegram: %s", result.Description)
	}
	return nil
}

func registryUpdateMessage(newCount int, pending []*registry.PendingProgram) string {
	var lines []string
	for i, p := range pending {
		if i == maxListed {
			break
		}
		pid := p.ProgramID
		if len(pid) > 8 {
			pid = pid[:8] + "..."
		}
		lines = append(lines, fmt.Sprintf("%d. [%s](%s) - %d txs", i+1, pid, p.SolscanURL, p.Count))
	}
	programsText := strings.Join(lines, "\n")
	if len(pending) > maxListed {
		programsText += fmt.Sprintf("\n\n_...and %d more_", len(pending)-maxListed)
	}

	return fmt.Sprintf(`🔍 *Program Registry Update*

📊 *%d new programs* detected
📋 *%d total* pending review

*Top programs to review:*
%s

After classifying, commit and push the registry.`, newCount, len(pending), programsText)
}
