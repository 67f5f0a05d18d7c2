package validation

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(Middleware(cfg))
	app.Post(PredictPath, func(c *fiber.Ctx) error {
		text, _ := c.Locals("review_text").(string)
		return c.SendString(text)
	})
	app.Post(UploadPath, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Post(BulkPredictPath, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return app
}

func post(t *testing.T, app *fiber.App, path, contentType, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(data)
}

func TestPredictValidation(t *testing.T) {
	app := newApp(Config{MaxReviewLength: 20})

	cases := []struct {
		body string
		want int
	}{
		{`{"review_text":"  great  "}`, 200},
		{`{"review_text":""}`, 400},
		{`{"review_text":"   "}`, 400},
		{`{}`, 400},
		{`{"review_text":`, 400},
		{`{"review_text":"this text is far too long to accept"}`, 400},
	}
	for _, tc := range cases {
		status, body := post(t, app, PredictPath, "application/json", tc.body)
		if status != tc.want {
			t.Errorf("%s: got %d (%s), want %d", tc.body, status, body, tc.want)
		}
		if status == 200 && body != "great" {
			t.Errorf("sanitized text: got %q", body)
		}
	}
}

func TestUnsupportedContentType(t *testing.T) {
	app := newApp(Config{})
	if status, _ := post(t, app, UploadPath, "application/xml", "<a/>"); status != fiber.StatusUnsupportedMediaType {
		t.Errorf("got %d, want 415", status)
	}
	if status, _ := post(t, app, UploadPath, "text/csv; charset=utf-8", "a,b\n1,2"); status != 200 {
		t.Errorf("csv upload: got %d, want 200", status)
	}
}

func TestUploadTooLarge(t *testing.T) {
	app := newApp(Config{MaxUploadBytes: 8})
	for _, path := range []string{UploadPath, BulkPredictPath} {
		if status, _ := post(t, app, path, "text/csv", "a,b\n1,2\n3,4\n"); status != fiber.StatusRequestEntityTooLarge {
			t.Errorf("%s: got %d, want 413", path, status)
		}
	}
}
