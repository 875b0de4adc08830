// Package reconcile aggregates every cash-drawer-affecting event of a caja
// session into (método, moneda) buckets and compares them against the manual
// count (arqueo) that gates the session close.
package reconcile

import "strings"

// Canonical bucket labels. Every raw method string the legacy data carries
// collapses onto this set; unknown labels pass through verbatim so nothing
// silently disappears from the arqueo.
const (
	EtiquetaEfectivo      = "Efectivo"
	EtiquetaTarjeta       = "Tarjeta"
	EtiquetaTransferencia = "Transferencia"
	EtiquetaPagoMovil     = "Pago Móvil"
	EtiquetaVale          = "Vale"
)

var etiquetas = map[string]string{
	"efectivo":      EtiquetaEfectivo,
	"cash":          EtiquetaEfectivo,
	"cash_money":    EtiquetaEfectivo,
	"tarjeta":       EtiquetaTarjeta,
	"card":          EtiquetaTarjeta,
	"debito":        EtiquetaTarjeta,
	"punto":         EtiquetaTarjeta,
	"transferencia": EtiquetaTransferencia,
	"transfer":      EtiquetaTransferencia,
	"pago_movil":    EtiquetaPagoMovil,
	"pagomovil":     EtiquetaPagoMovil,
	"pago móvil":    EtiquetaPagoMovil,
	"vale":          EtiquetaVale,
	"credito":       EtiquetaVale,
	"credit":        EtiquetaVale,
}

// EtiquetaCanonica maps a raw payment-method string onto the canonical label
// set, case-insensitively. Unrecognized labels are returned as received.
func EtiquetaCanonica(raw string) string {
	if e, ok := etiquetas[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return e
	}
	return raw
}
