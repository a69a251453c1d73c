package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kapilraj/pos-backend/internal/events"
	"github.com/kapilraj/pos-backend/internal/khalti"
	"github.com/kapilraj/pos-backend/internal/logging"
	"github.com/kapilraj/pos-backend/internal/repo"
	"github.com/kapilraj/pos-backend/internal/search"
	"github.com/kapilraj/pos-backend/internal/service"
)

const publishTimeout = 5 * time.Second

// httpError maps domain errors onto HTTP status codes. Not-found sentinels
// become 404; callers that need a different mapping (checkout treats an
// unknown cart item as a bad request) handle those cases before calling.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrUnsupportedPayment):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, repo.ErrCategoryNotFound),
		errors.Is(err, repo.ErrItemNotFound),
		errors.Is(err, repo.ErrOrderNotFound),
		errors.Is(err, repo.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, repo.ErrInsufficientStock),
		errors.Is(err, repo.ErrLowStockLimit):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, search.ErrUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, khalti.ErrGateway):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// publish sends a domain event with a short timeout detached from the
// request deadline. Failures are logged, never surfaced to the client.
func publish(c echo.Context, p *events.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), publishTimeout)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("event_publish_failed",
			"topic", topic, "key", key, "error", err)
	}
}

// formImage extracts the optional multipart file part. The returned closer
// must be called after the upload is consumed; it is a no-op when no file
// was sent.
func formImage(c echo.Context, field string) (*service.ImageUpload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// echo returns an error for a plainly absent part
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}
	img := &service.ImageUpload{
		Reader:      f,
		Size:        fh.Size,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Filename:    fh.Filename,
	}
	return img, func() { f.Close() }, nil
}
