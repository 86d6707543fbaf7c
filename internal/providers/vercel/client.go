// Package vercel реализует клиент Vercel API для привязки пользовательских
// доменов к проекту платформы. Все операции необязательные: при отсутствии
// токена клиент сообщает об этом через IsConfigured.
package vercel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"
)

// Client клиент Vercel API.
type Client struct {
	apiToken   string
	projectID  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Vercel.
func NewClient(apiToken, projectID string) *Client {
	return &Client{
		apiToken:   apiToken,
		projectID:  projectID,
		apiURL:     "https://api.vercel.com",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// IsConfigured сообщает, заданы ли токен и проект.
func (c *Client) IsConfigured() bool {
	return c.apiToken != "" && c.projectID != ""
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error.Message != "" {
			return errors.New(apiErr.Error.Message)
		}
		return errors.New("unexpected status: " + resp.Status)
	}
	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

// AddDomain добавляет домен к проекту.
func (c *Client) AddDomain(ctx context.Context, domain string) (*Domain, error) {
	req, err := c.newRequest(ctx, "POST",
		"/v10/projects/"+url.PathEscape(c.projectID)+"/domains",
		map[string]string{"name": domain})
	if err != nil {
		return nil, err
	}
	var result Domain
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveDomain удаляет домен из проекта.
func (c *Client) RemoveDomain(ctx context.Context, domain string) error {
	req, err := c.newRequest(ctx, "DELETE",
		"/v9/projects/"+url.PathEscape(c.projectID)+"/domains/"+url.PathEscape(domain), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// DomainStatus возвращает состояние домена в проекте.
func (c *Client) DomainStatus(ctx context.Context, domain string) (*Domain, error) {
	req, err := c.newRequest(ctx, "GET",
		"/v9/projects/"+url.PathEscape(c.projectID)+"/domains/"+url.PathEscape(domain), nil)
	if err != nil {
		return nil, err
	}
	var result Domain
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ConfigStatus возвращает состояние DNS-конфигурации домена.
func (c *Client) ConfigStatus(ctx context.Context, domain string) (*DomainConfig, error) {
	req, err := c.newRequest(ctx, "GET",
		"/v6/domains/"+url.PathEscape(domain)+"/config", nil)
	if err != nil {
		return nil, err
	}
	var result DomainConfig
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
