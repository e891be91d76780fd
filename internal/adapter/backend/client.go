package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
	"github.com/Temutjin2k/carpool-admin/internal/domain/types"
	wrap "github.com/Temutjin2k/carpool-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/carpool-admin/pkg/metrics"
)

const maxErrorBody = 4 << 10

// Client talks to the CarPool backend API.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ListPayments fetches GET /api/payments.
func (c *Client) ListPayments(ctx context.Context) (*models.PaymentsResponse, error) {
	const op = "Backend.ListPayments"

	var out models.PaymentsResponse
	if err := c.do(ctx, op, http.MethodGet, "/api/payments", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDriver fetches GET /api/driver/{id}. Both {"User": driver} and a bare driver are accepted.
func (c *Client) GetDriver(ctx context.Context, id string) (*models.Driver, error) {
	const op = "Backend.GetDriver"
	ctx = wrap.WithDriverID(ctx, id)

	var raw json.RawMessage
	err := c.do(ctx, op, http.MethodGet, "/api/driver/"+url.PathEscape(id), nil, &raw)
	if err != nil {
		return nil, err
	}

	driver, err := decodeDriver(raw)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrInvalidResponse, err))
	}
	if driver == nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrDriverNotFound))
	}
	if driver.ID == "" {
		driver.ID = id
	}
	return driver, nil
}

func decodeDriver(raw json.RawMessage) (*models.Driver, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, nil
		}
		return nil, err
	}
	if keys == nil {
		return nil, nil
	}

	for _, k := range []string{"User", "user"} {
		if inner, ok := keys[k]; ok {
			raw = inner
			break
		}
	}

	var d *models.Driver
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdatePayment sends PUT /api/payments/{id} with the full record body.
func (c *Client) UpdatePayment(ctx context.Context, id string, body []byte) error {
	const op = "Backend.UpdatePayment"
	return c.do(ctx, op, http.MethodPut, "/api/payments/"+url.PathEscape(id), body, nil)
}

// ListRides fetches GET /api/rides.
func (c *Client) ListRides(ctx context.Context) (*models.RidesResponse, error) {
	const op = "Backend.ListRides"

	var out models.RidesResponse
	if err := c.do(ctx, op, http.MethodGet, "/api/rides", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers fetches GET /api/users.
func (c *Client) ListUsers(ctx context.Context) (*models.UsersSummary, error) {
	const op = "Backend.ListUsers"

	var out models.UsersSummary
	if err := c.do(ctx, op, http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminReport fetches GET /api/reports/admin.
func (c *Client) AdminReport(ctx context.Context) (*models.AdminReport, error) {
	const op = "Backend.AdminReport"

	var out models.AdminReport
	if err := c.do(ctx, op, http.MethodGet, "/api/reports/admin", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordBackendRequest(op, err, time.Since(start))
	}()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: build request: %w", op, err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrBackendUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		if resp.StatusCode == http.StatusNotFound && strings.HasPrefix(path, "/api/driver/") {
			return wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrDriverNotFound))
		}
		return wrap.Error(ctx, &StatusError{Op: op, Code: resp.StatusCode})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrInvalidResponse, err))
	}
	return nil
}

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s: %d", e.Op, types.ErrUnexpectedStatus, e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == types.ErrUnexpectedStatus
}
