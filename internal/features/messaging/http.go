package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPGateway talks to a WhatsApp Cloud style API.
type HTTPGateway struct {
	baseURL     string
	phoneID     string
	accessToken string
	HttpClient  *http.Client
}

func NewHTTPGateway(baseURL, phoneID, accessToken string) *HTTPGateway {
	return &HTTPGateway{
		baseURL:     strings.TrimRight(baseURL, "/"),
		phoneID:     phoneID,
		accessToken: accessToken,
		HttpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (g *HTTPGateway) Send(ctx context.Context, toPhone, text string) (SendResult, error) {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                toPhone,
		"type":              "text",
		"text": map[string]string{
			"body": text,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return SendResult{}, err
	}

	url := fmt.Sprintf("%s/%s/messages", g.baseURL, g.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return SendResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.accessToken)

	resp, err := g.HttpClient.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("whatsapp request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result sendResponse
	_ = json.Unmarshal(respBody, &result)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg := fmt.Sprintf("whatsapp api returned %d", resp.StatusCode)
		if result.Error != nil {
			msg = fmt.Sprintf("%s: %s", msg, result.Error.Message)
		}
		return SendResult{Success: false, Message: msg}, errors.New(msg)
	}

	res := SendResult{Success: true, Message: "sent"}
	if len(result.Messages) > 0 {
		res.Message = result.Messages[0].ID
	}
	return res, nil
}
