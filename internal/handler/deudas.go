package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/owaldom/mangopos-app-web-sub000/internal/apierror"
	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/service"
)

type DeudasHandler struct{ svc service.DeudaService }

func NewDeudasHandler(svc service.DeudaService) *DeudasHandler { return &DeudasHandler{svc: svc} }

// Abonar settles part or all of a deuda through the split-payment engine.
func (h *DeudasHandler) Abonar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AbonarDeudaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abonar(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DeudasHandler) Listar(c *gin.Context) {
	var filter dto.DeudaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar deudas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
