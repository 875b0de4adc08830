package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/owaldom/mangopos-app-web-sub000/internal/apierror"
	"github.com/owaldom/mangopos-app-web-sub000/internal/money"
	"github.com/owaldom/mangopos-app-web-sub000/internal/payment"
	"github.com/owaldom/mangopos-app-web-sub000/internal/pricing"
	"github.com/owaldom/mangopos-app-web-sub000/internal/service"
	"github.com/owaldom/mangopos-app-web-sub000/internal/session"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeServiceError maps the engine's sentinel errors to HTTP statuses.
// Conflicts of state (caja, pago, deuda) are 409; malformed amounts and
// encodings are 400.
func writeServiceError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, payment.ErrPagoIncompleto),
		errors.Is(err, payment.ErrLimiteCreditoExcedido),
		errors.Is(err, payment.ErrEstadoPago),
		errors.Is(err, session.ErrCajaYaAbierta),
		errors.Is(err, session.ErrSinCajaAbierta),
		errors.Is(err, service.ErrDeudaLiquidada):
		status = http.StatusConflict
	case errors.Is(err, payment.ErrClienteRequerido),
		errors.Is(err, payment.ErrAsignacionInvalida),
		errors.Is(err, pricing.ErrDescuentoInvalido),
		errors.Is(err, pricing.ErrDescuentoExcedeBase),
		errors.Is(err, pricing.ErrLineaInvalida),
		errors.Is(err, money.ErrMontoInvalido),
		errors.Is(err, money.ErrTasaInvalida):
		status = http.StatusBadRequest
	}
	c.JSON(status, apierror.New(err.Error()))
}
