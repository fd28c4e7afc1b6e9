// Package client is a thin HTTP client for the robot API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/devghori1264/aerophoenix/robot-service/internal/models"
	"github.com/devghori1264/aerophoenix/robot-service/internal/validation"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	// Message is the detail string, or the field errors joined for 422s.
	Message string
	Fields  []validation.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("robot api: %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{httpClient: c, logger: logger}
}

func (c *Client) ListRobots(ctx context.Context) ([]models.Robot, error) {
	var out []models.Robot
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/robots")
	if err := c.check(resp, err, "list robots"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRobot(ctx context.Context, id string) (models.Robot, error) {
	var out models.Robot
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("robot_id", id).
		SetResult(&out).
		Get("/robot")
	if err := c.check(resp, err, "get robot"); err != nil {
		return models.Robot{}, err
	}
	return out, nil
}

func (c *Client) CreateRobot(ctx context.Context, in models.RobotCreate) (models.Robot, error) {
	var out models.Robot
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(&out).
		Post("/robots")
	if err := c.check(resp, err, "create robot"); err != nil {
		return models.Robot{}, err
	}
	return out, nil
}

// PatchRobot sends only the fields set in p.
func (c *Client) PatchRobot(ctx context.Context, id string, p models.RobotPatch) (models.Robot, error) {
	var out models.Robot
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("robot_id", id).
		SetBody(p).
		SetResult(&out).
		Patch("/robot")
	if err := c.check(resp, err, "patch robot"); err != nil {
		return models.Robot{}, err
	}
	return out, nil
}

func (c *Client) check(resp *resty.Response, err error, op string) error {
	if err != nil {
		c.logger.Error("robot api call failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if !resp.IsError() {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode(), Message: resp.Status()}
	var body errorBody
	if json.Unmarshal(resp.Body(), &body) == nil && len(body.Detail) > 0 {
		var msg string
		if json.Unmarshal(body.Detail, &msg) == nil {
			apiErr.Message = msg
		} else if json.Unmarshal(body.Detail, &apiErr.Fields) == nil && len(apiErr.Fields) > 0 {
			apiErr.Message = validation.NewError(apiErr.Fields).Error()
		}
	}
	c.logger.Debug("robot api returned error", zap.String("op", op), zap.Int("status_code", apiErr.StatusCode), zap.String("detail", apiErr.Message))
	return apiErr
}
