package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "vaadly/internal/errors"
	"vaadly/internal/models"
	"vaadly/internal/pagination"
)

// supplierService handles supplier business logic.
type supplierService struct {
	db *gorm.DB
}

// NewSupplierService creates a new SupplierServicer.
func NewSupplierService(db *gorm.DB) SupplierServicer {
	return &supplierService{db: db}
}

// CreateSupplier creates a new supplier.
func (s *supplierService) CreateSupplier(name, phone, email, field, notes string) (*models.Supplier, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	supplier := &models.Supplier{
		Name:    name,
		Phone:   phone,
		Email:   email,
		Field:   field,
		Notes:   notes,
		IsValid: true,
	}
	if err := s.db.Create(supplier).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return supplier, nil
}

// GetSupplierByID returns a supplier by ID.
func (s *supplierService) GetSupplierByID(supplierID string) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := s.db.First(&supplier, "id = ?", supplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSupplierNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return &supplier, nil
}

// GetSuppliers lists suppliers with pagination.
func (s *supplierService) GetSuppliers(page pagination.PageRequest) (*pagination.PageResponse[models.Supplier], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Supplier{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	var suppliers []models.Supplier
	err := s.db.Scopes(pagination.Paginate(page)).
		Order("name ASC").
		Find(&suppliers).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	resp := pagination.NewPageResponse(suppliers, page.Page, page.PageSize, totalItems)
	return &resp, nil
}

// UpdateSupplier updates a supplier's contact fields.
func (s *supplierService) UpdateSupplier(supplierID string, update SupplierUpdate) (*models.Supplier, error) {
	supplier, err := s.GetSupplierByID(supplierID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		if *update.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name cannot be empty")
		}
		updates["name"] = *update.Name
	}
	if update.Phone != nil {
		updates["phone"] = *update.Phone
	}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.Field != nil {
		updates["field"] = *update.Field
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}
	if update.IsValid != nil {
		updates["is_valid"] = *update.IsValid
	}

	if len(updates) > 0 {
		if err := s.db.Model(supplier).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
		}
	}
	return supplier, nil
}

// DeleteSupplier soft-deletes a supplier. Existing entries and templates keep
// their reference.
func (s *supplierService) DeleteSupplier(supplierID string) error {
	supplier, err := s.GetSupplierByID(supplierID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(supplier).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return nil
}
