package chatlog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/wechat-daily-report/internal/models"
)

// Client represents a chatlog service client
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new chatlog service client
func NewClient(baseURL string, timeout int, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		timeout:    time.Duration(timeout) * time.Second,
		httpClient: &http.Client{},
		logger:     logger.With().Str("component", "chatlog").Logger(),
	}
}

// HealthCheck checks whether the chatlog service responds.
// A short session query serves as the liveness probe.
func (c *Client) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("offset", "0")

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+"/api/v1/session?"+params.Encode(), nil,
	)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// GetChatRooms lists group chats, optionally filtered by keyword
func (c *Client) GetChatRooms(ctx context.Context, keyword string, limit int) ([]models.ChatRoom, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", "0")
	params.Set("keyword", keyword)

	var envelope struct {
		Items []models.ChatRoom `json:"items"`
	}
	if err := c.getJSON(ctx, "/api/v1/chatroom", params, &envelope); err != nil {
		return nil, fmt.Errorf("failed to fetch chat rooms: %w", err)
	}
	return envelope.Items, nil
}

// FindGroupByName looks up a group chat by its display name
func (c *Client) FindGroupByName(ctx context.Context, groupName string) (*models.ChatRoom, error) {
	rooms, err := c.GetChatRooms(ctx, groupName, 100)
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		if rooms[i].NickName == groupName || rooms[i].Name == groupName {
			return &rooms[i], nil
		}
	}
	return nil, nil
}

// GetChatLogs fetches one page of chat records for a group.
// timeRange uses the chatlog query syntax: a single "YYYY-MM-DD[ HH:MM]"
// value or "<start>~<end>". The response may be a bare JSON array or an
// object wrapping the records in a "data" array; both shapes are accepted.
func (c *Client) GetChatLogs(
	ctx context.Context, talker, timeRange string, limit, offset int,
) ([]models.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("format", "json")
	params.Set("talker", talker)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	if timeRange != "" {
		params.Set("time", timeRange)
	}

	var raw json.RawMessage
	if err := c.getJSON(ctx, "/api/v1/chatlog", params, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch chat logs for %s: %w", talker, err)
	}

	var logs []models.RawMessage
	if err := json.Unmarshal(raw, &logs); err == nil {
		return logs, nil
	}
	var envelope struct {
		Data []models.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected chatlog response format: %w", err)
	}
	return envelope.Data, nil
}

// FetchAll pages through all chat records for a group and time range.
// Pages are requested with increasing offsets until a short or empty page
// signals exhaustion; the API reports no total, so the short page is the
// sole termination condition. On a transport failure the records
// accumulated so far are returned together with the error, so that a flaky
// upstream degrades report quality instead of discarding fetched data.
func (c *Client) FetchAll(
	ctx context.Context, talker, timeRange string, pageSize int,
) ([]models.RawMessage, error) {
	var all []models.RawMessage
	offset := 0

	for {
		page, err := c.GetChatLogs(ctx, talker, timeRange, pageSize, offset)
		if err != nil {
			c.logger.Error().
				Err(err).
				Str("talker", talker).
				Int("offset", offset).
				Int("accumulated", len(all)).
				Msg("Paging aborted, keeping partial results")
			return all, err
		}

		all = append(all, page...)
		c.logger.Debug().
			Str("talker", talker).
			Int("offset", offset).
			Int("page_size", len(page)).
			Int("accumulated", len(all)).
			Msg("Fetched chat log page")

		if len(page) < pageSize {
			break
		}
		offset += pageSize
	}

	c.logger.Info().
		Str("talker", talker).
		Str("time_range", timeRange).
		Int("total", len(all)).
		Msg("Fetched all chat logs")
	return all, nil
}

// getJSON performs a GET request against the chatlog API and decodes
// the JSON response into out
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil,
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("chatlog API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
