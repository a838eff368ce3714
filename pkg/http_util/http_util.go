package http_util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/labstack/echo"
)

type HTTPResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type HTTPErrorResponse struct {
	Message  string              `json:"message"`
	Problems map[string][]string `json:"problems,omitempty"`
}

func Encode[T any](c echo.Context, status int, v T) error {
	return c.JSON(status, v)
}

func Decode[T any](c echo.Context) (T, error) {
	var v T
	if err := c.Bind(&v); err != nil {
		return v, err
	}
	return v, nil
}

func DecodeBody[T any](body []byte, v T) (T, error) {
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("decode json: %w", err)
	}
	return v, nil
}

// EncodeError maps the engine's error taxonomy onto HTTP statuses, so
// handlers never branch on error types themselves.
func EncodeError(c echo.Context, err error) error {
	var validation *apperr.ValidationError
	if errors.As(err, &validation) {
		return c.JSON(http.StatusBadRequest, HTTPErrorResponse{
			Message:  "Bad request",
			Problems: validation.Problems,
		})
	}

	var quota *apperr.QuotaExceededError
	if errors.As(err, &quota) {
		return c.JSON(http.StatusTooManyRequests, HTTPErrorResponse{
			Message: quota.Error(),
		})
	}

	if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrMatchGone) {
		return c.JSON(http.StatusNotFound, HTTPErrorResponse{Message: err.Error()})
	}

	if errors.Is(err, apperr.ErrAlreadyRevealed) ||
		errors.Is(err, apperr.ErrGuessesExhausted) ||
		errors.Is(err, apperr.ErrAlreadySwiped) {
		return c.JSON(http.StatusConflict, HTTPErrorResponse{Message: err.Error()})
	}

	var transient *apperr.TransientWriteError
	if errors.As(err, &transient) {
		return c.JSON(http.StatusBadGateway, HTTPErrorResponse{Message: transient.Error()})
	}

	var batch *apperr.BatchLoadError
	if errors.As(err, &batch) {
		return c.JSON(http.StatusServiceUnavailable, HTTPErrorResponse{Message: "failed to load, retry"})
	}

	return c.JSON(http.StatusInternalServerError, HTTPErrorResponse{Message: "internal error"})
}
