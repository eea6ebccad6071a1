package http

import (
	"github.com/tu-usuario/libreria-stock/internal/application/dto"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
)

func toBookResponse(b *entity.Book) dto.BookResponse {
	return dto.BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		Price:       b.Price,
		CachedStock: b.CachedStock,
		Active:      b.Active,
		CreatedAt:   b.CreatedAt,
	}
}

func toBookResponses(books []*entity.Book) []dto.BookResponse {
	out := make([]dto.BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	return out
}

func toStoreResponse(s *entity.Store) dto.StoreResponse {
	return dto.StoreResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}

func toStoreResponses(stores []*entity.Store) []dto.StoreResponse {
	out := make([]dto.StoreResponse, 0, len(stores))
	for _, s := range stores {
		out = append(out, toStoreResponse(s))
	}
	return out
}

func toRecordResponse(r *entity.InventoryRecord) dto.InventoryRecordResponse {
	resp := dto.InventoryRecordResponse{
		ID:             r.ID,
		BookID:         r.BookID,
		StoreID:        r.StoreID,
		StockTotal:     r.StockTotal,
		StockAvailable: r.StockAvailable,
		StockReserved:  r.StockReserved,
		ThresholdAlert: r.ThresholdAlert,
		Status:         string(r.Status),
		UpdatedAt:      r.UpdatedAt,
	}
	if a := r.LastAudit; a != nil {
		resp.LastAudit = &dto.StockAuditResponse{
			CountedAt:     a.CountedAt,
			Actor:         a.Actor,
			SystemCount:   a.SystemCount,
			PhysicalCount: a.PhysicalCount,
			Difference:    a.Difference,
			AutoAdjusted:  a.AutoAdjusted,
		}
	}
	return resp
}

func toRecordResponses(records []*entity.InventoryRecord) []dto.InventoryRecordResponse {
	out := make([]dto.InventoryRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toRecordResponse(r))
	}
	return out
}

func toMovementResponses(movements []*entity.Movement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:             m.ID,
			RecordID:       m.RecordID,
			BookID:         m.BookID,
			StoreID:        m.StoreID,
			Kind:           m.Kind,
			Quantity:       m.Quantity,
			Reason:         m.Reason,
			Actor:          m.Actor,
			SaleRef:        m.SaleRef,
			TransferRef:    m.TransferRef,
			ReservationRef: m.ReservationRef,
			Note:           m.Note,
			CreatedAt:      m.CreatedAt,
		})
	}
	return out
}

func toStatusChangeResponses(changes []*entity.StatusChange) []dto.StatusChangeResponse {
	out := make([]dto.StatusChangeResponse, 0, len(changes))
	for _, ch := range changes {
		out = append(out, dto.StatusChangeResponse{
			ID:        ch.ID,
			RecordID:  ch.RecordID,
			Previous:  string(ch.Previous),
			Next:      string(ch.Next),
			Reason:    ch.Reason,
			Actor:     ch.Actor,
			CreatedAt: ch.CreatedAt,
		})
	}
	return out
}
