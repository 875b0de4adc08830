package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/owaldom/mangopos-app-web-sub000/internal/apierror"
	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/middleware"
	"github.com/owaldom/mangopos-app-web-sub000/internal/service"
)

type TasaHandler struct{ svc service.TasaService }

func NewTasaHandler(svc service.TasaService) *TasaHandler { return &TasaHandler{svc: svc} }

func (h *TasaHandler) Actual(c *gin.Context) {
	valor, err := h.svc.Actual(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener la tasa"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"valor": valor})
}

func (h *TasaHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarTasaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Actualizar(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TasaHandler) Historial(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	resp, err := h.svc.Historial(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener el historial"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
