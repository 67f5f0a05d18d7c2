package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sentimentiq/backend/internal/sentiment"
	"github.com/sentimentiq/backend/pkg/logger"
)

type PredictHandler struct {
	classifier sentiment.Classifier
}

func NewPredictHandler(classifier sentiment.Classifier) *PredictHandler {
	return &PredictHandler{
		classifier: classifier,
	}
}

func (h *PredictHandler) Predict(c *fiber.Ctx) error {
	text, ok := c.Locals("review_text").(string)
	if !ok {
		var req struct {
			ReviewText string `json:"review_text"`
		}
		if err := c.BodyParser(&req); err != nil {
			logger.Error("Failed to parse request body", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
		text = strings.TrimSpace(req.ReviewText)
	}

	if text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "review_text is required",
		})
	}

	result, err := h.classifier.Classify(c.UserContext(), text)
	if err != nil {
		logger.Error("Failed to classify review", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to classify review",
		})
	}

	return c.JSON(result)
}
