package worker

// ticket_worker.go
// Processes PDF-receipt jobs from QueueTicket: fetches the venta and renders
// the internal thermal-style ticket with its dual-currency totals.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/owaldom/mangopos-app-web-sub000/internal/infra"
	"github.com/owaldom/mangopos-app-web-sub000/internal/repository"
)

// TicketJobPayload is the job envelope sent to QueueTicket.
type TicketJobPayload struct {
	VentaID      string  `json:"venta_id"`
	ClienteEmail *string `json:"cliente_email,omitempty"`
}

// TicketWorker renders PDF receipts and optionally chains an email job.
type TicketWorker struct {
	ventaRepo      repository.VentaRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
	nombreTienda   string
}

func NewTicketWorker(ventaRepo repository.VentaRepository, dispatcher *Dispatcher, pdfStoragePath, nombreTienda string) *TicketWorker {
	return &TicketWorker{
		ventaRepo:      ventaRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
		nombreTienda:   nombreTienda,
	}
}

// Process renders the PDF for one venta. Failures are retried with backoff;
// a venta that cannot be rendered after all attempts lands in the DLQ via
// the caller's raw payload.
func (w *TicketWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload TicketJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("ticket_worker: invalid payload")
		return
	}

	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		log.Error().Str("venta_id", payload.VentaID).Msg("ticket_worker: invalid venta_id")
		return
	}

	venta, err := w.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("ticket_worker: venta not found")
		return
	}

	var pdfPath string
	genErr := withRetry(ctx, 3, func(attempt int) error {
		p, err := infra.GenerateTicketPDF(venta, w.nombreTienda, w.pdfStoragePath)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Str("venta_id", payload.VentaID).
				Msg("ticket_worker: PDF attempt failed, retrying")
			return err
		}
		pdfPath = p
		return nil
	})
	if genErr != nil {
		log.Error().Err(genErr).Str("venta_id", payload.VentaID).Msg("ticket_worker: PDF generation failed after retries")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("venta_id", payload.VentaID).Msg("ticket_worker: PDF generated")

	if payload.ClienteEmail != nil && *payload.ClienteEmail != "" {
		emailJob := EmailJobPayload{
			ToEmail: *payload.ClienteEmail,
			Subject: fmt.Sprintf("%s — Ticket #%d", w.nombreTienda, venta.NumeroTicket),
			Body: fmt.Sprintf("Adjunto encontrarás tu comprobante de compra.\nTotal: $%s (Bs %s)",
				venta.TotalUSD.StringFixed(2), venta.TotalBs.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *payload.ClienteEmail).Msg("ticket_worker: failed to enqueue email")
		}
	}
}
