package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	importapp "github.com/arghosts/affiliate-shop-sub000/internal/application/import"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/metrics"
	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const importFileField = "file"

// ProductImporter is the bulk import use case consumed by ImportHandler
type ProductImporter interface {
	Import(ctx context.Context, filename string, r io.Reader) (*importapp.ImportResult, error)
}

// ImportHandler handles spreadsheet product imports
type ImportHandler struct {
	BaseHandler
	importer ProductImporter
	metrics  *metrics.Metrics
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importer ProductImporter, m *metrics.Metrics) *ImportHandler {
	return &ImportHandler{
		importer: importer,
		metrics:  m,
	}
}

// ImportProducts godoc
// @Summary      Import products from a spreadsheet
// @Description  Accepts a .csv or .xlsx file. Rows are imported independently; failing rows are reported.
// @Tags         admin-import
// @Accept       mpfd
// @Produce      json
// @Param        file formData file true "CSV or XLSX file"
// @Success      200 {object} dto.ActionResult{data=importapp.ImportResult}
// @Failure      400 {object} dto.ActionResult
// @Failure      422 {object} dto.ActionResult{data=importapp.ImportResult}
// @Router       /admin/import/products [post]
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	fh, err := c.FormFile(importFileField)
	if err != nil {
		h.ActionFailed(c, shared.NewDomainError(dto.ErrCodeBadRequest, "An import file is required"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.ActionFailed(c, err)
		return
	}
	defer f.Close()

	result, err := h.importer.Import(c.Request.Context(), fh.Filename, f)
	if result != nil {
		h.metrics.ObserveImport(result.SuccessCount, result.ErrorCount)
	}

	switch {
	case errors.Is(err, importapp.ErrImportFailed):
		resp := dto.ActionError(importapp.ErrImportFailed.Code, importapp.ErrImportFailed.Message)
		resp.Data = result
		c.JSON(dto.GetHTTPStatus(resp.Code), resp)
	case err != nil:
		h.ActionFailed(c, err)
	default:
		h.Action(c, http.StatusOK,
			fmt.Sprintf("Imported %d of %d products", result.SuccessCount, result.TotalRows), result)
	}
}
