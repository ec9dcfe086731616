// Package lyfta is a client for the Lyfta web API: workout collections and
// workout templates.
package lyfta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ripixel/fitglue-importer/pkg/domain/workout"
	apperrors "github.com/ripixel/fitglue-importer/pkg/errors"
)

const (
	DefaultBaseURL = "https://my.lyfta.app/api"

	// RequestsPerSecond is shared by every call made through one Client.
	RequestsPerSecond = 10

	maxErrorBody = 4096
)

// Collection identifies a created collection.
type Collection struct {
	ID     workout.Scalar
	UserID workout.Scalar
	Name   string
}

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	now     func() time.Time
}

// NewClient returns a client authenticating with cookies. If httpClient is
// nil a client with the cookie Transport is built.
func NewClient(baseURL string, cookies CookieSource, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	hc := *httpClient
	hc.Transport = &Transport{Source: cookies, Base: httpClient.Transport}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &hc,
		limiter: rate.NewLimiter(rate.Limit(RequestsPerSecond), RequestsPerSecond),
		now:     time.Now,
	}
}

type envelope struct {
	Data struct {
		ID     workout.Scalar `json:"id"`
		UserID workout.Scalar `json:"user_id"`
	} `json:"data"`
}

// post sends payload and decodes the response into out. A nil out discards
// the response body once the status has been checked.
func (c *Client) post(ctx context.Context, endpoint string, payload any, out *envelope) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.ErrPlatformRateLimited.WithCause(err).WithMessage("rate limiter wait failed")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternalError, "failed to encode request")
	}

	url := c.baseURL + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodePlatformAPI, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("Request failed", "component", "lyfta", "url", url, "error", err)
		return apperrors.ErrPlatformAPI.WithCause(err).WithMetadata("endpoint", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		slog.Error("HTTP error from platform", "component", "lyfta", "url", url, "status", resp.StatusCode, "body", string(errBody))

		base := apperrors.ErrPlatformAPI
		if resp.StatusCode == http.StatusTooManyRequests {
			base = apperrors.ErrPlatformRateLimited
		}
		return base.
			WithMessage(fmt.Sprintf("%s returned status %d", endpoint, resp.StatusCode)).
			WithMetadata("endpoint", endpoint).
			WithMetadata("status", strconv.Itoa(resp.StatusCode)).
			WithMetadata("body", string(errBody))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.ErrPlatformAPI.WithCause(err).
			WithMessage("failed to decode response").WithMetadata("endpoint", endpoint)
	}
	return nil
}

// CreateCollection creates a workout collection and returns its id and the
// owning user id.
func (c *Client) CreateCollection(ctx context.Context, name string) (*Collection, error) {
	now := c.now().Format(isoLayout)
	var env envelope
	err := c.post(ctx, "saveCollection", map[string]any{
		"collection": map[string]any{
			"title":        name,
			"description":  "",
			"image":        "",
			"date_created": now,
			"date_updated": now,
		},
	}, &env)
	if err != nil {
		return nil, err
	}
	if env.Data.ID.IsZero() {
		return nil, apperrors.ErrPlatformAPI.WithMessage("collection id missing from response").
			WithMetadata("collection", name)
	}

	slog.Info("Created collection", "component", "lyfta", "collection", name, "collection_id", env.Data.ID.String())
	return &Collection{ID: env.Data.ID, UserID: env.Data.UserID, Name: name}, nil
}

// CreateWorkoutInCollection saves a template shell in the collection, then
// saves the full workout under the id the shell was given.
func (c *Client) CreateWorkoutInCollection(ctx context.Context, w UploadWorkout, col *Collection) (workout.Scalar, error) {
	now := c.now().Format(isoLayout)
	shell := map[string]any{
		"workout": map[string]any{
			"id":                           nil,
			"collectionId":                 col.ID,
			"workoutType":                  nil,
			"userId":                       nil,
			"workoutName":                  nil,
			"description":                  "",
			"exertion":                     0,
			"privacy":                      nil,
			"isCompleted":                  false,
			"workoutDuration":              nil,
			"createDate":                   nil,
			"updateDate":                   nil,
			"isTemplate":                   "0",
			"exercises":                    []any{},
			"isExpanded":                   false,
			"workoutPerformDate":           nil,
			"createWorkoutAndSaveTemplate": nil,
			"user":                         nil,
			"colorCode":                    "",
			"workoutNote":                  "",
			"workoutPicture":               "",
			"lastPerformedDate":            "",
			"downloadcount":                "",
			"viewcount":                    "",
			"finishScreenStats":            nil,
			"totalVolume":                  0,
			"collectionName":               col.Name,
			"create_date":                  now,
			"update_date":                  now,
			"title":                        w.Title,
		},
	}

	var env envelope
	if err := c.post(ctx, "workout/SaveTemplate", shell, &env); err != nil {
		return workout.Scalar{}, err
	}
	if env.Data.ID.IsZero() {
		return workout.Scalar{}, apperrors.ErrPlatformAPI.WithMessage("workout id missing from response").
			WithMetadata("workout", w.Title)
	}

	id, userID := env.Data.ID, col.UserID
	w.ID = &id
	w.UserID = &userID
	if err := c.post(ctx, "workout/SaveTemplate", map[string]any{"workout": w}, nil); err != nil {
		return workout.Scalar{}, err
	}

	slog.Info("Created workout", "component", "lyfta", "workout", w.Title, "workout_id", id.String(), "collection", col.Name)
	return id, nil
}
