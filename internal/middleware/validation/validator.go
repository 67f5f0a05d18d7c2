package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	PredictPath     = "/api/v1/predict"
	UploadPath      = "/api/v1/upload"
	BulkPredictPath = "/api/v1/bulk_predict"
)

type Config struct {
	MaxReviewLength     int
	MaxUploadBytes      int
	AllowedContentTypes []string
	Logger              *zap.Logger
}

// Middleware rejects bodies the handlers cannot use before they reach them.
// A validated predict body is stored under the "review_text" local.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxReviewLength == 0 {
		cfg.MaxReviewLength = 5000
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = 10 * 1024 * 1024
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{"application/json", "multipart/form-data", "text/csv", "text/plain"}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodPost || c.Method() == fiber.MethodPut {
			contentType := c.Get(fiber.HeaderContentType)
			if contentType != "" && !allowed(contentType, cfg.AllowedContentTypes) {
				return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
					"error": "Unsupported content type",
				})
			}
		}

		switch c.Path() {
		case PredictPath:
			var req struct {
				ReviewText *string `json:"review_text"`
			}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}

			if req.ReviewText == nil || strings.TrimSpace(*req.ReviewText) == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "review_text is required",
				})
			}

			if len(*req.ReviewText) > cfg.MaxReviewLength {
				cfg.Logger.Warn("Review text too long",
					zap.String("ip", c.IP()),
					zap.Int("length", len(*req.ReviewText)),
				)
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "review_text exceeds maximum length",
				})
			}

			c.Locals("review_text", sanitizeString(*req.ReviewText))

		case UploadPath, BulkPredictPath:
			if len(c.Body()) > cfg.MaxUploadBytes {
				return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
					"error": "Upload exceeds maximum size",
				})
			}
		}

		return c.Next()
	}
}

func allowed(contentType string, types []string) bool {
	contentType = strings.ToLower(contentType)
	for _, t := range types {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}

func sanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}
