// Package calendly - клиент планировщика: OAuth авторизация и чтение типов событий.
package calendly

import (
	"context"
	"crmTracker/internal/config"
	"crmTracker/internal/logger"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const defaultTimeout = 15 * time.Second

var ErrUserURIMissing = errors.New("в ответе /users/me нет resource.uri")

// APIError - неуспешный ответ планировщика
type APIError struct {
	Operation string
	Status    int
	Body      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: статус %d: %s", e.Operation, e.Status, e.Body)
}

type Client struct {
	oauth         *oauth2.Config
	apiBaseURL    string
	personalToken string
	http          *http.Client
}

func New(cfg config.CalendlyConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	authBase := strings.TrimRight(cfg.AuthBaseURL, "/")

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"default"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   authBase + "/oauth/authorize",
				TokenURL:  authBase + "/oauth/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiBaseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		personalToken: cfg.PersonalToken,
		http:          httpClient,
	}
}

// AuthCodeURL - адрес страницы согласия с response_type=code и scope=default
func (c *Client) AuthCodeURL() string {
	return c.oauth.AuthCodeURL("")
}

func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	start := time.Now()
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, &APIError{
				Operation: "обмен кода на токен",
				Status:    retrieveErr.Response.StatusCode,
				Body:      string(retrieveErr.Body),
			}
		}
		return nil, fmt.Errorf("обмен кода на токен: %w", err)
	}

	logger.Debug("Calendly: токен получен", zap.Duration("duration", time.Since(start)))
	return token, nil
}

// EventTypes возвращает активные типы событий текущего пользователя
func (c *Client) EventTypes(ctx context.Context) ([]json.RawMessage, error) {
	me, err := c.get(ctx, "получение пользователя", "/users/me", nil)
	if err != nil {
		return nil, err
	}

	userURI := gjson.GetBytes(me, "resource.uri").String()
	if userURI == "" {
		return nil, ErrUserURIMissing
	}

	query := url.Values{}
	query.Set("user", userURI)
	query.Set("active", "true")

	body, err := c.get(ctx, "получение типов событий", "/event_types", query)
	if err != nil {
		return nil, err
	}

	res := []json.RawMessage{}
	gjson.GetBytes(body, "collection").ForEach(func(_, value gjson.Result) bool {
		res = append(res, json.RawMessage(value.Raw))
		return true
	})
	return res, nil
}

func (c *Client) get(ctx context.Context, operation, path string, query url.Values) ([]byte, error) {
	target := c.apiBaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.personalToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: чтение ответа: %w", operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("Calendly: неуспешный ответ",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode))
		return nil, &APIError{Operation: operation, Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
