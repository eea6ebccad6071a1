package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/libreria-stock/internal/domain"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
	"github.com/tu-usuario/libreria-stock/internal/domain/repository"
)

// StoreUseCase casos de uso de tiendas. Una tienda desactivada deja de
// participar en distribución y consolidación; borrarla exige que esté inactiva
// y que ninguno de sus registros conserve stock reservado.
type StoreUseCase struct {
	storeRepo  repository.StoreRepository
	recordRepo repository.InventoryRecordRepository
}

// NewStoreUseCase construye el caso de uso de tiendas.
func NewStoreUseCase(storeRepo repository.StoreRepository, recordRepo repository.InventoryRecordRepository) *StoreUseCase {
	return &StoreUseCase{storeRepo: storeRepo, recordRepo: recordRepo}
}

// CreateStore da de alta una tienda activa.
func (uc *StoreUseCase) CreateStore(_ context.Context, name, address string) (*entity.Store, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	store := &entity.Store{
		ID:        uuid.New().String(),
		Name:      name,
		Address:   address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.storeRepo.Create(store); err != nil {
		return nil, err
	}
	return store, nil
}

// UpdateStore actualiza nombre y dirección.
func (uc *StoreUseCase) UpdateStore(_ context.Context, id, name, address string) (*entity.Store, error) {
	if id == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	store, err := uc.requireStore(id)
	if err != nil {
		return nil, err
	}
	store.Name = name
	store.Address = address
	store.UpdatedAt = time.Now()
	if err := uc.storeRepo.Update(store); err != nil {
		return nil, err
	}
	return store, nil
}

// DeactivateStore saca la tienda de distribución y consolidación. Su stock
// queda fuera de las sumas hasta reactivarla o trasladarlo.
func (uc *StoreUseCase) DeactivateStore(_ context.Context, id string) error {
	store, err := uc.requireStore(id)
	if err != nil {
		return err
	}
	store.Active = false
	store.UpdatedAt = time.Now()
	return uc.storeRepo.Update(store)
}

// ActivateStore reincorpora la tienda.
func (uc *StoreUseCase) ActivateStore(_ context.Context, id string) error {
	store, err := uc.requireStore(id)
	if err != nil {
		return err
	}
	store.Active = true
	store.UpdatedAt = time.Now()
	return uc.storeRepo.Update(store)
}

// DeleteStore borra una tienda inactiva junto con sus registros sobrantes.
// Falla si la tienda sigue activa o si algún registro conserva reservas.
func (uc *StoreUseCase) DeleteStore(_ context.Context, id string) error {
	store, err := uc.requireStore(id)
	if err != nil {
		return err
	}
	if store.Active {
		return domain.ErrStateConflict
	}
	maxReserved, err := uc.recordRepo.MaxReservedByStore(id)
	if err != nil {
		return err
	}
	if maxReserved > 0 {
		return domain.ErrStateConflict
	}
	if err := uc.recordRepo.DeleteByStore(id); err != nil {
		return err
	}
	return uc.storeRepo.Delete(id)
}

// GetStore devuelve una tienda.
func (uc *StoreUseCase) GetStore(_ context.Context, id string) (*entity.Store, error) {
	return uc.requireStore(id)
}

// ListStores lista tiendas con paginación.
func (uc *StoreUseCase) ListStores(_ context.Context, limit, offset int) ([]*entity.Store, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.storeRepo.List(limit, offset)
}

func (uc *StoreUseCase) requireStore(id string) (*entity.Store, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	store, err := uc.storeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	return store, nil
}
