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

// Invoice is a client bill, numbered INV-{yyyymm}-{seq}.
type Invoice struct {
	ID                 int             `gorm:"primary_key" json:"id"`
	InvoiceNumber      string          `gorm:"size:50;uniqueIndex;not null" json:"invoice_number"`
	ClientName         string          `gorm:"size:200;not null" json:"client_name" binding:"required"`
	ClientAddress      string          `gorm:"type:text" json:"client_address"`
	IssueDate          DateString      `gorm:"not null" json:"issue_date" binding:"required"`
	DueDate            DateString      `gorm:"not null" json:"due_date" binding:"required"`
	BillingPeriodStart DateString      `json:"billing_period_start"`
	BillingPeriodEnd   DateString      `json:"billing_period_end"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	TaxRate            decimal.Decimal `gorm:"type:decimal(5,2);default:10" json:"tax_rate"`
	TaxAmount          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Status             InvoiceStatus   `gorm:"size:20;default:'draft'" json:"status"`
	Items              []*InvoiceItem  `gorm:"foreignKey:InvoiceId" json:"items"`
	Notes              string          `gorm:"type:text" json:"notes"`
	CreatedBy          string          `gorm:"size:100" json:"created_by"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type InvoiceItem struct {
	ID              int             `gorm:"primary_key" json:"id"`
	InvoiceId       int             `gorm:"index;not null" json:"invoice_id"`
	ProjectId       int             `gorm:"index;not null" json:"project_id"`
	Description     string          `gorm:"size:500;not null" json:"description"`
	WorkPeriodStart *DateString     `json:"work_period_start"`
	WorkPeriodEnd   *DateString     `json:"work_period_end"`
	Quantity        decimal.Decimal `gorm:"type:decimal(10,2);default:1" json:"quantity"`
	Unit            string          `gorm:"size:20;default:'set'" json:"unit"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	DisplayOrder    int             `gorm:"default:0" json:"display_order"`
}

type NewInvoice struct {
	ClientName         string            `json:"client_name" binding:"required"`
	ClientAddress      string            `json:"client_address"`
	IssueDate          DateString        `json:"issue_date" binding:"required"`
	DueDate            DateString        `json:"due_date" binding:"required"`
	BillingPeriodStart DateString        `json:"billing_period_start"`
	BillingPeriodEnd   DateString        `json:"billing_period_end"`
	TaxRate            *decimal.Decimal  `json:"tax_rate"`
	Status             InvoiceStatus     `json:"status"`
	Items              []*NewInvoiceItem `json:"items"`
	Notes              string            `json:"notes"`
	CreatedBy          string            `json:"created_by"`
}

type NewInvoiceItem struct {
	ProjectId       int             `json:"project_id" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	WorkPeriodStart *DateString     `json:"work_period_start"`
	WorkPeriodEnd   *DateString     `json:"work_period_end"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DisplayOrder    int             `json:"display_order"`
}

func (obj Invoice) GetId() int {
	return obj.ID
}

// next invoice number, INV-{yyyymm}-{seq:03d}, sequence restarts each month
func nextInvoiceNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	yearMonth := time.Now().Format("200601")
	prefix := "INV-" + yearMonth + "-"

	var latest string
	err := tx.WithContext(ctx).Model(&Invoice{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Order("invoice_number DESC").
		Limit(1).
		Pluck("invoice_number", &latest).Error
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
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

func (input *NewInvoice) validate(ctx context.Context) error {
	if input.IssueDate.IsZero() || input.DueDate.IsZero() {
		return errors.New("issue date and due date are required")
	}
	if input.Status == "" {
		input.Status = InvoiceStatusDraft
	}
	for _, item := range input.Items {
		if err := utils.ValidateResourceId[Project](ctx, item.ProjectId); err != nil {
			return errors.New("invoice item project not found")
		}
	}
	return nil
}

// subtotal = sum of item amounts; tax = subtotal * rate / 100 truncated to yen;
// total = subtotal + tax
func buildInvoiceItems(inputs []*NewInvoiceItem, taxRate decimal.Decimal) ([]*InvoiceItem, decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	items := make([]*InvoiceItem, 0, len(inputs))
	subtotal := decimal.Zero
	for i, in := range inputs {
		qty := in.Quantity
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		unit := in.Unit
		if unit == "" {
			unit = "set"
		}
		displayOrder := in.DisplayOrder
		if displayOrder == 0 {
			displayOrder = i + 1
		}
		item := &InvoiceItem{
			ProjectId:       in.ProjectId,
			Description:     in.Description,
			WorkPeriodStart: in.WorkPeriodStart,
			WorkPeriodEnd:   in.WorkPeriodEnd,
			Quantity:        qty,
			Unit:            unit,
			UnitPrice:       in.UnitPrice,
			Amount:          qty.Mul(in.UnitPrice),
			DisplayOrder:    displayOrder,
		}
		subtotal = subtotal.Add(item.Amount)
		items = append(items, item)
	}
	taxAmount := subtotal.Mul(taxRate).Div(decimal.NewFromInt(100)).Truncate(0)
	total := subtotal.Add(taxAmount)
	return items, subtotal, taxAmount, total
}

func CreateInvoice(ctx context.Context, input *NewInvoice) (*Invoice, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	taxRate := decimal.NewFromInt(10)
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}
	items, subtotal, taxAmount, total := buildInvoiceItems(input.Items, taxRate)

	invoice := Invoice{
		ClientName:         input.ClientName,
		ClientAddress:      input.ClientAddress,
		IssueDate:          input.IssueDate,
		DueDate:            input.DueDate,
		BillingPeriodStart: input.BillingPeriodStart,
		BillingPeriodEnd:   input.BillingPeriodEnd,
		Subtotal:           subtotal,
		TaxRate:            taxRate,
		TaxAmount:          taxAmount,
		TotalAmount:        total,
		Status:             input.Status,
		Items:              items,
		Notes:              input.Notes,
		CreatedBy:          input.CreatedBy,
	}

	db := config.GetDB()
	tx := db.Begin()

	invoiceNumber, err := nextInvoiceNumber(ctx, tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	invoice.InvoiceNumber = invoiceNumber

	if err := tx.WithContext(ctx).Create(&invoice).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[Invoice](invoice.ID); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func UpdateInvoice(ctx context.Context, id int, input *NewInvoice) (*Invoice, error) {

	before, err := utils.FetchModel[Invoice](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	taxRate := before.TaxRate
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}
	items, subtotal, taxAmount, total := buildInvoiceItems(input.Items, taxRate)

	update := Invoice{
		ID:                 id,
		InvoiceNumber:      before.InvoiceNumber,
		ClientName:         input.ClientName,
		ClientAddress:      input.ClientAddress,
		IssueDate:          input.IssueDate,
		DueDate:            input.DueDate,
		BillingPeriodStart: input.BillingPeriodStart,
		BillingPeriodEnd:   input.BillingPeriodEnd,
		Subtotal:           subtotal,
		TaxRate:            taxRate,
		TaxAmount:          taxAmount,
		TotalAmount:        total,
		Status:             input.Status,
		Notes:              input.Notes,
		CreatedBy:          before.CreatedBy,
		CreatedAt:          before.CreatedAt,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Save(&update).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Where("invoice_id = ?", id).Delete(&InvoiceItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, item := range items {
		item.InvoiceId = id
		if err := tx.WithContext(ctx).Create(item).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	update.Items = items
	if err := ClearResourceCache[Invoice](id); err != nil {
		return nil, err
	}
	return &update, nil
}

func DeleteInvoice(ctx context.Context, id int) (*Invoice, error) {

	result, err := utils.FetchModel[Invoice](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("invoice_id = ?", id).Delete(&InvoiceItem{}).Error; err != nil {
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

	if err := ClearResourceCache[Invoice](id); err != nil {
		return nil, err
	}
	return result, nil
}

func GetInvoice(ctx context.Context, id int) (*Invoice, error) {
	return utils.FetchModel[Invoice](ctx, id, "Items")
}

func PaginateInvoice(ctx context.Context, page, limit int, status *InvoiceStatus, fromDate *DateString, toDate *DateString, search *string) (*PageConnection[Invoice], error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).
		Preload("Items").
		Order("issue_date DESC, created_at DESC")

	if err := fromDate.StartOfDayUTCTime(""); err != nil {
		return nil, err
	}
	if err := toDate.EndOfDayUTCTime(""); err != nil {
		return nil, err
	}

	if status != nil && *status != "" {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if fromDate != nil && toDate != nil {
		dbCtx = dbCtx.Where("issue_date BETWEEN ? AND ?", fromDate, toDate)
	}
	if search != nil && *search != "" {
		like := "%" + *search + "%"
		dbCtx = dbCtx.Where("invoice_number LIKE ? OR client_name LIKE ?", like, like)
	}

	return FetchPage[Invoice](dbCtx, page, limit)
}
