package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/owaldom/mangopos-app-web-sub000/internal/apierror"
	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/middleware"
	"github.com/owaldom/mangopos-app-web-sub000/internal/service"
	"github.com/owaldom/mangopos-app-web-sub000/internal/session"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Abrir(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CajaHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RegistrarMovimiento(c.Request.Context(), req); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// IniciarCierre freezes the session and returns the expected cash buckets
// so the UI can run the blind count.
func (h *CajaHandler) IniciarCierre(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	cubetas, err := h.svc.IniciarCierre(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"efectivo_esperado": cubetas})
}

// ConfirmarCierre compares the declared count against the ledger. A mismatch
// keeps the session open and surfaces the per-bucket differences.
func (h *CajaHandler) ConfirmarCierre(c *gin.Context) {
	var req dto.CierreCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ConfirmarCierre(c.Request.Context(), req)
	if errors.Is(err, session.ErrArqueoNoCuadra) && resp != nil {
		diffs := make([]apierror.ArqueoDiferencia, 0, len(resp.Diferencias))
		for _, d := range resp.Diferencias {
			diffs = append(diffs, apierror.ArqueoDiferencia{
				Etiqueta: d.Etiqueta,
				Moneda:   d.Moneda,
				Esperado: d.Esperado.String(),
				Contado:  d.Contado.String(),
				Delta:    d.Delta.String(),
			})
		}
		c.JSON(http.StatusConflict, apierror.NewArqueo(diffs))
		return
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) ObtenerReporte(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ObtenerReporte(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
