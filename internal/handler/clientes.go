package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/owaldom/mangopos-app-web-sub000/internal/apierror"
	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/model"
	"github.com/owaldom/mangopos-app-web-sub000/internal/repository"
)

// ClientesHandler is thin enough to sit directly on the repository: no
// pricing or drawer logic is involved in the customer registry.
type ClientesHandler struct{ repo repository.ClienteRepository }

func NewClientesHandler(repo repository.ClienteRepository) *ClientesHandler {
	return &ClientesHandler{repo: repo}
}

func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cliente := &model.Cliente{
		Cedula:           req.Cedula,
		Nombre:           req.Nombre,
		Telefono:         req.Telefono,
		Email:            req.Email,
		LimiteCreditoUSD: req.LimiteCreditoUSD,
		Activo:           true,
	}
	if err := h.repo.Create(c.Request.Context(), cliente); err != nil {
		c.JSON(http.StatusConflict, apierror.New("No se pudo crear el cliente (¿cédula duplicada?)"))
		return
	}
	c.JSON(http.StatusCreated, clienteToResponse(cliente))
}

func (h *ClientesHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	cliente, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("cliente no encontrado"))
		return
	}
	c.JSON(http.StatusOK, clienteToResponse(cliente))
}

// BuscarPorCedula es la consulta del cajero en la pantalla de venta a crédito.
func (h *ClientesHandler) BuscarPorCedula(c *gin.Context) {
	cedula := c.Param("cedula")
	cliente, err := h.repo.FindByCedula(c.Request.Context(), cedula)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("cliente no encontrado"))
		return
	}
	c.JSON(http.StatusOK, clienteToResponse(cliente))
}

func clienteToResponse(cl *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:               cl.ID.String(),
		Cedula:           cl.Cedula,
		Nombre:           cl.Nombre,
		Telefono:         cl.Telefono,
		Email:            cl.Email,
		LimiteCreditoUSD: cl.LimiteCreditoUSD,
		DeudaActualBs:    cl.DeudaActualBs,
		Activo:           cl.Activo,
	}
}
