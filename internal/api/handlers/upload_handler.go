package handlers

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sentimentiq/backend/internal/dashboard"
	"github.com/sentimentiq/backend/internal/ingestion"
	"github.com/sentimentiq/backend/internal/metrics"
	"github.com/sentimentiq/backend/internal/models"
	"github.com/sentimentiq/backend/pkg/logger"
)

// UploadsMetric names the external upload counter.
const UploadsMetric = "uploads"

var errNotCSV = errors.New("please upload a CSV file")

// UploadCounter keeps a running upload count outside the process.
type UploadCounter interface {
	IncrementMetric(ctx context.Context, metricName string) error
}

type UploadHandler struct {
	processor *ingestion.Processor
	store     *dashboard.Store
	counter   UploadCounter
}

// NewUploadHandler accepts a nil counter.
func NewUploadHandler(processor *ingestion.Processor, store *dashboard.Store, counter UploadCounter) *UploadHandler {
	return &UploadHandler{
		processor: processor,
		store:     store,
		counter:   counter,
	}
}

// Upload analyses a CSV sent either as multipart field "file" or as a raw
// text/csv body, and replaces the current snapshot with the result.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	snap, ferr := h.ingest(c)
	if ferr != nil {
		return c.Status(ferr.Code).JSON(fiber.Map{
			"error": ferr.Message,
		})
	}

	return c.JSON(fiber.Map{
		"snapshot_id":   snap.ID,
		"source":        snap.Source,
		"total_reviews": snap.Dashboard.TotalReviews,
		"rows_dropped":  snap.RowsDropped,
		"columns":       snap.Columns,
		"dashboard":     snap.Dashboard,
	})
}

// BulkPredict takes the same input as Upload and also replaces the snapshot,
// but answers with the per-review results.
func (h *UploadHandler) BulkPredict(c *fiber.Ctx) error {
	snap, ferr := h.ingest(c)
	if ferr != nil {
		return c.Status(ferr.Code).JSON(fiber.Map{
			"error": ferr.Message,
		})
	}

	return c.JSON(snap.Reviews)
}

func (h *UploadHandler) ingest(c *fiber.Ctx) (*models.Snapshot, *fiber.Error) {
	start := time.Now()

	source, text, err := readUpload(c)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		logger.Warn("Rejected upload", zap.Error(err))
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	result, err := h.processor.Process(c.UserContext(), text)
	if errors.Is(err, ingestion.ErrNoValidRows) {
		metrics.UploadsTotal.WithLabelValues("empty").Inc()
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, ingestion.ErrNoValidRows.Error())
	}
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		logger.Error("Failed to process upload", zap.String("source", source), zap.Error(err))
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to process upload")
	}

	snap := dashboard.NewSnapshot(source, result)
	h.store.Replace(snap)

	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	metrics.UploadDuration.Observe(time.Since(start).Seconds())

	if h.counter != nil {
		if err := h.counter.IncrementMetric(c.UserContext(), UploadsMetric); err != nil {
			logger.Warn("Failed to increment upload counter", zap.Error(err))
		}
	}

	return snap, nil
}

func readUpload(c *fiber.Ctx) (string, string, error) {
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))

	switch {
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		header, err := c.FormFile("file")
		if err != nil {
			return "", "", errors.New("file field is required")
		}
		if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
			return "", "", errNotCSV
		}

		f, err := header.Open()
		if err != nil {
			return "", "", errors.New("failed to read uploaded file")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return "", "", errors.New("failed to read uploaded file")
		}
		return filepath.Base(header.Filename), string(data), nil

	case strings.HasPrefix(contentType, "text/csv"), strings.HasPrefix(contentType, fiber.MIMETextPlain):
		return "upload.csv", string(c.Body()), nil
	}

	return "", "", errNotCSV
}
