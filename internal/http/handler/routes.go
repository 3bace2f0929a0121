package handler

import (
	"github.com/gofiber/fiber/v2"

	"convertapi/internal/service"
)

// Services bundles the use cases the HTTP layer depends on.
type Services struct {
	Uploads  service.UploadService
	Convert  service.ConvertService
	PDF      service.PDFService
	Records  service.RecordService
	Payments service.PaymentService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: parse, delegate, map errors.
func RegisterRoutes(app *fiber.App, s Services) {
	app.Get("/", Root())
	app.Get("/health", HealthCheck(s.Records))
	app.Get("/healthz", LivenessProbe())
	app.Get("/test-mongo", TestMongo(s.Records))

	// Files
	app.Post("/upload", UploadFile(s.Uploads))
	app.Get("/files", ListFiles(s.Uploads))
	app.Get("/files/:id", GetFile(s.Uploads))
	app.Delete("/files/:id", DeleteFile(s.Uploads))

	// Conversion
	app.Get("/formats", ListFormats(s.Convert))
	app.Post("/convert-to-:format", ConvertTo(s.Uploads, s.Convert))
	app.Post("/merge-pdfs", MergePDFs(s.Uploads, s.PDF))
	app.Post("/split-pdf", SplitPDF(s.Uploads, s.PDF))
	app.Post("/encrypt-pdf", EncryptPDF(s.Uploads, s.PDF))

	// Payments
	app.Post("/create-payment-intent", CreatePaymentIntent(s.Payments))
	app.Post("/create-checkout-session", CreateCheckoutSession(s.Payments))

	// Records
	app.Post("/add-document", AddDocument(s.Records))
	app.Get("/get-documents", GetDocuments(s.Records))
}
