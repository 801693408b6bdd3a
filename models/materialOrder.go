package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmdatafocus/dispatch_backend/config"
	"github.com/mmdatafocus/dispatch_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaterialOrder is a purchase order for materials, numbered M{yy}{seq}.
type MaterialOrder struct {
	ID                 int                  `gorm:"primary_key" json:"id"`
	ProjectId          int                  `gorm:"index;not null" json:"project_id" binding:"required"`
	ContractorId       int                  `gorm:"index;not null" json:"contractor_id" binding:"required"`
	Contractor         *Contractor          `json:"contractor,omitempty"`
	OrderNumber        string               `gorm:"size:20;uniqueIndex;not null" json:"order_number"`
	Status             MaterialOrderStatus  `gorm:"size:20;default:'draft'" json:"status"`
	OrderDate          DateString           `gorm:"not null" json:"order_date" binding:"required"`
	DeliveryDate       *DateString          `json:"delivery_date"`
	ActualDeliveryDate *DateString          `json:"actual_delivery_date"`
	TotalAmount        decimal.Decimal      `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Items              []*MaterialOrderItem `gorm:"foreignKey:OrderId" json:"items"`
	Notes              string               `gorm:"type:text" json:"notes"`
	CreatedAt          time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

type MaterialOrderItem struct {
	ID            int             `gorm:"primary_key" json:"id"`
	OrderId       int             `gorm:"index;not null" json:"order_id"`
	MaterialName  string          `gorm:"size:200;not null" json:"material_name"`
	Specification string          `gorm:"type:text" json:"specification"`
	Quantity      decimal.Decimal `gorm:"type:decimal(10,2);default:1" json:"quantity"`
	Unit          string          `gorm:"size:20" json:"unit"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_price"`
	Notes         string          `gorm:"type:text" json:"notes"`
}

type NewMaterialOrder struct {
	ProjectId          int                     `json:"project_id" binding:"required"`
	ContractorId       int                     `json:"contractor_id" binding:"required"`
	Status             MaterialOrderStatus     `json:"status"`
	OrderDate          DateString              `json:"order_date" binding:"required"`
	DeliveryDate       *DateString             `json:"delivery_date"`
	ActualDeliveryDate *DateString             `json:"actual_delivery_date"`
	Items              []*NewMaterialOrderItem `json:"items"`
	Notes              string                  `json:"notes"`
}

type NewMaterialOrderItem struct {
	MaterialName  string          `json:"material_name" binding:"required"`
	Specification string          `json:"specification"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Notes         string          `json:"notes"`
}

func (obj MaterialOrder) GetId() int {
	return obj.ID
}

// next order number, M{yy}{seq:04d}
func nextOrderNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	yearSuffix := time.Now().Format("06")
	prefix := "M" + yearSuffix

	var latest string
	err := tx.WithContext(ctx).Model(&MaterialOrder{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		Limit(1).
		Pluck("order_number", &latest).Error
	if err != nil {
		return "", err
	}

	seq := 1
	if latest != "" {
		var latestSeq int
		if _, err := fmt.Sscanf(latest[len(prefix):], "%d", &latestSeq); err == nil {
			seq = latestSeq + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func (input *NewMaterialOrder) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[Project](ctx, input.ProjectId); err != nil {
		return errors.New("project not found")
	}
	if err := utils.ValidateResourceId[Contractor](ctx, input.ContractorId); err != nil {
		return errors.New("contractor not found")
	}
	if input.OrderDate.IsZero() {
		return errors.New("order date is required")
	}
	if input.Status == "" {
		input.Status = MaterialOrderDraft
	}
	return nil
}

// item totals and the order total are derived, never taken from input
func buildOrderItems(inputs []*NewMaterialOrderItem) ([]*MaterialOrderItem, decimal.Decimal) {
	items := make([]*MaterialOrderItem, 0, len(inputs))
	total := decimal.Zero
	for _, in := range inputs {
		qty := in.Quantity
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		item := &MaterialOrderItem{
			MaterialName:  in.MaterialName,
			Specification: in.Specification,
			Quantity:      qty,
			Unit:          in.Unit,
			UnitPrice:     in.UnitPrice,
			TotalPrice:    qty.Mul(in.UnitPrice),
			Notes:         in.Notes,
		}
		total = total.Add(item.TotalPrice)
		items = append(items, item)
	}
	return items, total
}

func CreateMaterialOrder(ctx context.Context, input *NewMaterialOrder) (*MaterialOrder, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	items, total := buildOrderItems(input.Items)
	order := MaterialOrder{
		ProjectId:          input.ProjectId,
		ContractorId:       input.ContractorId,
		Status:             input.Status,
		OrderDate:          input.OrderDate,
		DeliveryDate:       input.DeliveryDate,
		ActualDeliveryDate: input.ActualDeliveryDate,
		TotalAmount:        total,
		Items:              items,
		Notes:              input.Notes,
	}

	db := config.GetDB()
	tx := db.Begin()

	orderNumber, err := nextOrderNumber(ctx, tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	order.OrderNumber = orderNumber

	if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[MaterialOrder](order.ID); err != nil {
		return nil, err
	}
	return &order, nil
}

func UpdateMaterialOrder(ctx context.Context, id int, input *NewMaterialOrder) (*MaterialOrder, error) {

	before, err := utils.FetchModel[MaterialOrder](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	items, total := buildOrderItems(input.Items)
	update := MaterialOrder{
		ID:                 id,
		ProjectId:          input.ProjectId,
		ContractorId:       input.ContractorId,
		OrderNumber:        before.OrderNumber,
		Status:             input.Status,
		OrderDate:          input.OrderDate,
		DeliveryDate:       input.DeliveryDate,
		ActualDeliveryDate: input.ActualDeliveryDate,
		TotalAmount:        total,
		Notes:              input.Notes,
		CreatedAt:          before.CreatedAt,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Save(&update).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	// replace items wholesale
	if err := tx.WithContext(ctx).Where("order_id = ?", id).Delete(&MaterialOrderItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, item := range items {
		item.OrderId = id
		if err := tx.WithContext(ctx).Create(item).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	update.Items = items
	if err := ClearResourceCache[MaterialOrder](id); err != nil {
		return nil, err
	}
	return &update, nil
}

func DeleteMaterialOrder(ctx context.Context, id int) (*MaterialOrder, error) {

	result, err := utils.FetchModel[MaterialOrder](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("order_id = ?", id).Delete(&MaterialOrderItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[MaterialOrder](id); err != nil {
		return nil, err
	}
	return result, nil
}

func GetMaterialOrder(ctx context.Context, id int) (*MaterialOrder, error) {
	return utils.FetchModel[MaterialOrder](ctx, id, "Items", "Contractor")
}

func PaginateMaterialOrder(ctx context.Context, page, limit int, projectId *int, status *MaterialOrderStatus, fromDate *DateString, toDate *DateString) (*PageConnection[MaterialOrder], error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).
		Preload("Items").
		Preload("Contractor").
		Order("order_date DESC")

	if err := fromDate.StartOfDayUTCTime(""); err != nil {
		return nil, err
	}
	if err := toDate.EndOfDayUTCTime(""); err != nil {
		return nil, err
	}

	if projectId != nil && *projectId > 0 {
		dbCtx = dbCtx.Where("project_id = ?", *projectId)
	}
	if status != nil && *status != "" {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if fromDate != nil && toDate != nil {
		dbCtx = dbCtx.Where("order_date BETWEEN ? AND ?", fromDate, toDate)
	}

	return FetchPage[MaterialOrder](dbCtx, page, limit)
}
