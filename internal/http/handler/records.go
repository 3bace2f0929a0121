package handler

import (
	"github.com/gofiber/fiber/v2"

	"convertapi/internal/service"
)

// AddDocument godoc
// @Summary Insert one JSON record
// @Tags records
// @Accept json
// @Produce json
// @Param collectionName query string true "collection"
// @Param record body object true "any JSON object"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /add-document [post]
func AddDocument(records service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := records.Insert(c.UserContext(), c.Query("collectionName"), c.Body())
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(fiber.Map{"insertedId": id})
	}
}

// GetDocuments godoc
// @Summary List every record of a collection
// @Tags records
// @Produce json
// @Param collectionName query string true "collection"
// @Success 200 {array} object
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /get-documents [get]
func GetDocuments(records service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		recs, err := records.ListAll(c.UserContext(), c.Query("collectionName"))
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(recs)
	}
}
