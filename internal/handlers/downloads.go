package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePNG  = "image/png"

	errBuildWorkbook = "failed to build workbook"
	errRenderChart   = "failed to render chart"
)

// serveDownload writes raw bytes as a file attachment.
func (h *Handler) serveDownload(c *gin.Context, name, contentType string, raw []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, raw)
}

// @Summary      Download run workbook
// @Description  Two-sheet XLSX: the input parameters and the full point table
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "Run id"
// @Success      200  {file}    file
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/profiles/{id}/workbook [get]
// @Security     BearerAuth
func (h *Handler) downloadWorkbook(c *gin.Context) {
	ctx := c.Request.Context()
	name, raw, err := h.services.Exports.Workbook(ctx, c.Param("id"))
	if err != nil {
		h.respondNotFoundOr(c, errBuildWorkbook, "workbook_build_failed", err)
		return
	}
	h.serveDownload(c, name, contentTypeXLSX, raw)
}

// @Summary      Download run chart
// @Description  PNG of the trajectory with key-point crosshairs and labels
// @Tags         exports
// @Produce      image/png
// @Param        id   path  string  true  "Run id"
// @Success      200  {file}    file
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/profiles/{id}/chart [get]
// @Security     BearerAuth
func (h *Handler) downloadChart(c *gin.Context) {
	ctx := c.Request.Context()
	name, raw, err := h.services.Exports.Chart(ctx, c.Param("id"))
	if err != nil {
		h.respondNotFoundOr(c, errRenderChart, "chart_render_failed", err)
		return
	}
	h.serveDownload(c, name, contentTypePNG, raw)
}
