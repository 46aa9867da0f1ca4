package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"osmdev/internal/service"
)

// exportRequest mirrors the JSON body the editor posts.
type exportRequest struct {
	SequenceID string `json:"sequenceId"`
	OsmXML     string `json:"osmXml"`
}

// exportResponse is the success body for POST /export.
type exportResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// ExportSequence handles POST /export.
//
// @Summary Export a map-edit sequence as OSM XML
// @Accept json
// @Param request body handler.exportRequest true "sequence id and OSM XML payload"
// @Success 200 {object} handler.exportResponse
// @Failure 400 {object} handler.errorPayload
// @Failure 500 {object} handler.errorPayload
// @Router /export [post]
func ExportSequence(svc service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req exportRequest
		// Decode the raw body rather than content-type negotiating: the
		// editor posts JSON without always setting Content-Type.
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			log.Printf("export failed: bad request body: %v", err)
			return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("invalid request body: %v", err))
		}

		res, err := svc.Export(c.UserContext(), req.SequenceID, req.OsmXML)
		if err != nil {
			log.Printf("export failed (sequence id %q): %v", req.SequenceID, err)
			switch {
			case errors.Is(err, service.ErrContentRequired):
				return writeError(c, fiber.StatusBadRequest, "No OSM XML provided")
			case errors.Is(err, service.ErrInvalidSequenceID):
				return writeError(c, fiber.StatusBadRequest, err.Error())
			default:
				return writeError(c, fiber.StatusInternalServerError, err.Error())
			}
		}

		log.Printf("exported %s (%d bytes)", res.Export.Filename, res.Export.Size)
		return c.JSON(exportResponse{
			Success:  true,
			URL:      res.URL,
			Filename: res.Export.Filename,
		})
	}
}

// GetExport handles GET /exports/:filename, streaming a stored export back
// inline as XML.
//
// @Summary Retrieve an exported OSM file
// @Produce xml
// @Param filename path string true "export filename"
// @Success 200 {string} string "raw OSM XML"
// @Failure 404 {object} handler.errorPayload
// @Router /exports/{filename} [get]
func GetExport(svc service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filename := c.Params("filename")

		r, info, err := svc.Fetch(c.UserContext(), filename)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "export not found")
			}
			log.Printf("export retrieval failed (%q): %v", filename, err)
			return writeError(c, fiber.StatusInternalServerError, err.Error())
		}

		c.Set(fiber.HeaderContentType, "application/xml")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", info.Name))
		return c.SendStream(r, int(info.Size))
	}
}

// ListExports handles GET /exports with limit/offset pagination.
//
// @Summary List export history
// @Produce json
// @Param limit query int false "page size" default(10)
// @Param offset query int false "page offset" default(0)
// @Success 200 {object} service.ExportListResult
// @Failure 400 {object} handler.errorPayload
// @Router /exports [get]
func ListExports(svc service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			log.Printf("export listing failed: %v", err)
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(res)
	}
}
