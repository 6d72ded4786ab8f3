package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-records/internal/service"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
	"github.com/noah-isme/sma-records/pkg/response"
)

// TransferHandler exposes bulk export and import.
type TransferHandler struct {
	transfer *service.TransferService
}

// NewTransferHandler constructs TransferHandler.
func NewTransferHandler(transfer *service.TransferService) *TransferHandler {
	return &TransferHandler{transfer: transfer}
}

// Export godoc
// @Summary Download every collection as one document
// @Tags Data
// @Produce json
// @Success 200 {file} file
// @Router /data/export [get]
func (h *TransferHandler) Export(c *gin.Context) {
	doc, err := h.transfer.Export(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		response.Error(c, appErrors.WrapKind(err, appErrors.ErrInternal, "failed to encode export"))
		return
	}
	response.Attachment(c, service.ExportFilename(doc.ExportDate), "application/json", body)
}

// Import godoc
// @Summary Replace every collection with a document
// @Tags Data
// @Accept json
// @Produce json
// @Param confirm query bool true "Must be true; the import discards existing records"
// @Param payload body models.Document true "Interchange document"
// @Success 200 {object} response.Envelope
// @Router /data/import [post]
func (h *TransferHandler) Import(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	if !confirmed {
		response.Error(c, appErrors.Clone(appErrors.ErrPreconditionFailed, "import replaces all records; repeat with confirm=true"))
		return
	}
	doc, err := service.DecodeDocument(c.Request.Body)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.transfer.Import(c.Request.Context(), doc, confirmed)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
