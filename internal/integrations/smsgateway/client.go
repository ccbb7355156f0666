package smsgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент SMS шлюза (webhook с Bearer авторизацией)
type Client struct {
	url        string
	token      string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента SMS шлюза
func NewClient(url string, token string, timeout time.Duration, log Logger) *Client {
	return &Client{
		url:   strings.TrimSpace(url),
		token: strings.TrimSpace(token),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type sendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// Send отправляет SMS на указанный номер.
// Ошибка шлюза возвращается как непрозрачная строка — вызывающая сторона
// логирует её, но не интерпретирует.
func (c *Client) Send(ctx context.Context, phone string, message string) error {
	if c.url == "" {
		return ErrNotConfigured
	}

	raw, err := json.Marshal(sendRequest{To: phone, Body: message})
	if err != nil {
		return fmt.Errorf("%w: marshal payload: %v", ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrSendFailed, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: execute request: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.log.Warn("smsgateway: gateway returned status %d for %s: %s", resp.StatusCode, phone, string(body))
		return fmt.Errorf("%w: gateway returned status %d: %s", ErrSendFailed, resp.StatusCode, string(body))
	}

	return nil
}

// NoopClient заглушка для окружений без настроенного SMS шлюза
type NoopClient struct {
	log Logger
}

// NewNoopClient создает клиент-заглушку
func NewNoopClient(log Logger) *NoopClient {
	return &NoopClient{log: log}
}

// Send логирует сообщение вместо реальной отправки
func (c *NoopClient) Send(_ context.Context, phone string, message string) error {
	c.log.Info("smsgateway(noop): would send to %s: %s", phone, message)
	return nil
}
