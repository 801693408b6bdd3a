package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/dispatch_backend/config"
	"github.com/mmdatafocus/dispatch_backend/utils"
	"github.com/shopspring/decimal"
)

// InternalWorker is an in-house craftsman assignable to subcontract rows.
type InternalWorker struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name" binding:"required"`
	EmployeeId  string          `gorm:"size:20;uniqueIndex;not null" json:"employee_id" binding:"required"`
	Department  Department      `gorm:"size:50" json:"department"`
	Position    string          `gorm:"size:50" json:"position"`
	Email       string          `gorm:"size:255" json:"email"`
	Phone       string          `gorm:"size:20" json:"phone"`
	HourlyRate  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"hourly_rate"`
	Specialties string          `gorm:"type:text" json:"specialties"`
	Skills      string          `gorm:"type:text" json:"skills"`
	IsActive    *bool           `gorm:"default:true" json:"is_active"`
	HireDate    *DateString     `json:"hire_date"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInternalWorker struct {
	Name        string          `json:"name" binding:"required"`
	EmployeeId  string          `json:"employee_id" binding:"required"`
	Department  Department      `json:"department"`
	Position    string          `json:"position"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	Specialties string          `json:"specialties"`
	Skills      string          `json:"skills"`
	IsActive    *bool           `json:"is_active"`
	HireDate    *DateString     `json:"hire_date"`
}

func (obj InternalWorker) GetId() int {
	return obj.ID
}

func (input *NewInternalWorker) validate(ctx context.Context, id int) error {
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, ""); err != nil {
			return errors.New("invalid phone number")
		}
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	return utils.ValidateUnique[InternalWorker](ctx, "employee_id", input.EmployeeId, id)
}

func (input *NewInternalWorker) toModel() InternalWorker {
	return InternalWorker{
		Name:        input.Name,
		EmployeeId:  input.EmployeeId,
		Department:  input.Department,
		Position:    input.Position,
		Email:       input.Email,
		Phone:       input.Phone,
		HourlyRate:  input.HourlyRate,
		Specialties: input.Specialties,
		Skills:      input.Skills,
		IsActive:    input.IsActive,
		HireDate:    input.HireDate,
	}
}

func CreateInternalWorker(ctx context.Context, input *NewInternalWorker) (*InternalWorker, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	worker := input.toModel()
	if worker.IsActive == nil {
		worker.IsActive = utils.NewTrue()
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&worker).Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[InternalWorker](worker.ID); err != nil {
		return nil, err
	}
	return &worker, nil
}

func UpdateInternalWorker(ctx context.Context, id int, input *NewInternalWorker) (*InternalWorker, error) {

	before, err := utils.FetchModel[InternalWorker](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	update := input.toModel()
	update.ID = id
	update.CreatedAt = before.CreatedAt
	if update.IsActive == nil {
		update.IsActive = before.IsActive
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(&update).Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[InternalWorker](id); err != nil {
		return nil, err
	}
	return &update, nil
}

func DeleteInternalWorker(ctx context.Context, id int) (*InternalWorker, error) {

	result, err := utils.FetchModel[InternalWorker](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Subcontract](ctx, "internal_worker_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("internal worker has subcontracts")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[InternalWorker](id); err != nil {
		return nil, err
	}
	return result, nil
}

func GetInternalWorker(ctx context.Context, id int) (*InternalWorker, error) {
	return GetResource[InternalWorker](ctx, id)
}

func ListInternalWorkers(ctx context.Context) ([]*InternalWorker, error) {
	return ListAllResource[InternalWorker](ctx, "name ASC")
}

// count of in-flight assignments
func (w *InternalWorker) CurrentAssignments(ctx context.Context) (int64, error) {
	return utils.ResourceCountWhere[Subcontract](ctx,
		"internal_worker_id = ? AND payment_status != ?", w.ID, SubcontractPaymentPaid)
}

func (w *InternalWorker) TotalAmount(ctx context.Context) (decimal.Decimal, error) {
	db := config.GetDB()
	var subcontracts []*Subcontract
	err := db.WithContext(ctx).Where("internal_worker_id = ?", w.ID).Find(&subcontracts).Error
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, sc := range subcontracts {
		total = total.Add(sc.ResolveAmount())
	}
	return total, nil
}
