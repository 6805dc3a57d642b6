package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sumeetprajapati1996/food-order-backend/internal/models"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// Customers provides access to the customer collection.
type Customers struct {
	DB *gorm.DB
}

// NewCustomers constructs a Customers repository.
func NewCustomers(db *gorm.DB) *Customers {
	return &Customers{DB: db}
}

// Create inserts a new customer record.
func (r *Customers) Create(ctx context.Context, customer *models.Customer) error {
	return r.DB.WithContext(ctx).Create(customer).Error
}

// FindByID loads a customer by primary key.
func (r *Customers) FindByID(ctx context.Context, id uuid.UUID) (models.Customer, error) {
	var customer models.Customer

	err := r.DB.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Customer{}, ErrNotFound
		}
		return models.Customer{}, err
	}

	return customer, nil
}

// FindByEmail loads a customer by exact email match. Callers decide whether
// to normalize the address first.
func (r *Customers) FindByEmail(ctx context.Context, email string) (models.Customer, error) {
	var customer models.Customer

	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Customer{}, ErrNotFound
		}
		return models.Customer{}, err
	}

	return customer, nil
}

// FindByPhone loads a customer by phone number.
func (r *Customers) FindByPhone(ctx context.Context, phone string) (models.Customer, error) {
	var customer models.Customer

	err := r.DB.WithContext(ctx).Where("phone = ?", phone).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Customer{}, ErrNotFound
		}
		return models.Customer{}, err
	}

	return customer, nil
}

// Save writes the full customer record back. Concurrent saves of the same
// record are last-write-wins.
func (r *Customers) Save(ctx context.Context, customer *models.Customer) error {
	return r.DB.WithContext(ctx).Save(customer).Error
}
