package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/libreria-stock/internal/application/audit"
)

// AuditHandler maneja el reporte y la reparación de consistencia (solo admin).
type AuditHandler struct {
	auditor *audit.ConsistencyAuditor
	pdfGen  audit.ReportPDFGenerator
}

// NewAuditHandler construye el handler.
func NewAuditHandler(auditor *audit.ConsistencyAuditor, pdfGen audit.ReportPDFGenerator) *AuditHandler {
	return &AuditHandler{auditor: auditor, pdfGen: pdfGen}
}

// Report godoc
// @Summary      Reporte de consistencia caché vs inventario real
// @Description  Compara la caché de stock de cada libro activo contra su
//
//	consolidado y marca tiendas activas sin registros. Solo reporta:
//	no muta nada.
//
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  audit.Report
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/audit/report [get]
func (h *AuditHandler) Report(c *fiber.Ctx) error {
	report, err := h.auditor.Report(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// Repair godoc
// @Summary      Reparar la caché de stock de los libros con deriva
// @Description  Sobrescribe la caché con el valor consolidado. No crea
//
//	registros faltantes: esas tiendas quedan en el reporte.
//
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  audit.RepairResult
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/audit/repair [post]
func (h *AuditHandler) Repair(c *fiber.Ctx) error {
	result, err := h.auditor.Repair(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// ReportPDF godoc
// @Summary      Reporte de consistencia en PDF
// @Tags         audit
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/audit/report/pdf [get]
func (h *AuditHandler) ReportPDF(c *fiber.Ctx) error {
	report, err := h.auditor.Report(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	bytes, err := h.pdfGen.Generate(report)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reporte-consistencia.pdf"`)
	return c.Send(bytes)
}
