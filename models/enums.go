package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusReceived    OrderStatus = "received"
	OrderStatusNG          OrderStatus = "ng"
	OrderStatusProspect    OrderStatus = "prospect"
	OrderStatusConsidering OrderStatus = "considering"
)

func (t *OrderStatus) UnmarshalJSON(b []byte) error {
	str := unquote(b)
	orderStatuses := map[string]OrderStatus{
		"received":    OrderStatusReceived,
		"ng":          OrderStatusNG,
		"prospect":    OrderStatusProspect,
		"considering": OrderStatusConsidering,
	}
	v, ok := orderStatuses[str]
	if !ok {
		return errors.New("invalid order status")
	}
	*t = v
	return nil
}

type ProjectPaymentStatus string

const (
	ProjectPaymentStatusScheduled ProjectPaymentStatus = "scheduled"
	ProjectPaymentStatusExecuted  ProjectPaymentStatus = "executed"
	ProjectPaymentStatusOverdue   ProjectPaymentStatus = "overdue"
	ProjectPaymentStatusCancelled ProjectPaymentStatus = "cancelled"
)

func (t *ProjectPaymentStatus) UnmarshalJSON(b []byte) error {
	str := unquote(b)
	statuses := map[string]ProjectPaymentStatus{
		"scheduled": ProjectPaymentStatusScheduled,
		"executed":  ProjectPaymentStatusExecuted,
		"overdue":   ProjectPaymentStatusOverdue,
		"cancelled": ProjectPaymentStatusCancelled,
	}
	v, ok := statuses[str]
	if !ok {
		return errors.New("invalid payment status")
	}
	*t = v
	return nil
}

type SurveyRequirementStatus string

const (
	SurveyRequirementNotRequired SurveyRequirementStatus = "not_required"
	SurveyRequirementRequired    SurveyRequirementStatus = "required"
	SurveyRequirementScheduled   SurveyRequirementStatus = "scheduled"
	SurveyRequirementCompleted   SurveyRequirementStatus = "completed"
)

type WorkerType string

const (
	WorkerTypeExternal WorkerType = "external"
	WorkerTypeInternal WorkerType = "internal"
)

func (t *WorkerType) UnmarshalJSON(b []byte) error {
	str := unquote(b)
	switch str {
	case "external":
		*t = WorkerTypeExternal
	case "internal":
		*t = WorkerTypeInternal
	default:
		return errors.New("invalid worker type")
	}
	return nil
}

type InternalPricingType string

const (
	InternalPricingHourly  InternalPricingType = "hourly"
	InternalPricingProject InternalPricingType = "project"
)

type TaxType string

const (
	TaxTypeInclude TaxType = "include"
	TaxTypeExclude TaxType = "exclude"
)

type SubcontractPaymentStatus string

const (
	SubcontractPaymentPending    SubcontractPaymentStatus = "pending"
	SubcontractPaymentProcessing SubcontractPaymentStatus = "processing"
	SubcontractPaymentPaid       SubcontractPaymentStatus = "paid"
)

func (t *SubcontractPaymentStatus) UnmarshalJSON(b []byte) error {
	str := unquote(b)
	statuses := map[string]SubcontractPaymentStatus{
		"pending":    SubcontractPaymentPending,
		"processing": SubcontractPaymentProcessing,
		"paid":       SubcontractPaymentPaid,
	}
	v, ok := statuses[str]
	if !ok {
		return errors.New("invalid subcontract payment status")
	}
	*t = v
	return nil
}

type ContractorType string

const (
	ContractorTypeIndividual ContractorType = "individual"
	ContractorTypeCompany    ContractorType = "company"
)

type BankAccountType string

const (
	BankAccountOrdinary BankAccountType = "ordinary"
	BankAccountChecking BankAccountType = "checking"
)

type PaymentCycle string

const (
	PaymentCycleMonthly   PaymentCycle = "monthly"
	PaymentCycleBimonthly PaymentCycle = "bimonthly"
	PaymentCycleQuarterly PaymentCycle = "quarterly"
	PaymentCycleCustom    PaymentCycle = "custom"
)

func (t *PaymentCycle) UnmarshalJSON(b []byte) error {
	str := unquote(b)
	cycles := map[string]PaymentCycle{
		"monthly":   PaymentCycleMonthly,
		"bimonthly": PaymentCycleBimonthly,
		"quarterly": PaymentCycleQuarterly,
		"custom":    PaymentCycleCustom,
	}
	v, ok := cycles[str]
	if !ok {
		return errors.New("invalid payment cycle")
	}
	*t = v
	return nil
}

type Department string

const (
	DepartmentConstruction Department = "construction"
	DepartmentSales        Department = "sales"
	DepartmentOffice       Department = "office"
	DepartmentManagement   Department = "management"
)

type FixedCostType string

const (
	FixedCostRent      FixedCostType = "rent"
	FixedCostSalary    FixedCostType = "salary"
	FixedCostInsurance FixedCostType = "insurance"
	FixedCostUtility   FixedCostType = "utility"
	FixedCostLease     FixedCostType = "lease"
	FixedCostOther     FixedCostType = "other"
)

type VariableCostType string

const (
	VariableCostAd          VariableCostType = "advertising"
	VariableCostTravel      VariableCostType = "travel"
	VariableCostSupplies    VariableCostType = "supplies"
	VariableCostOutsourcing VariableCostType = "outsourcing"
	VariableCostEntertain   VariableCostType = "entertainment"
	VariableCostOther       VariableCostType = "other"
)

type MaterialOrderStatus string

const (
	MaterialOrderDraft     MaterialOrderStatus = "draft"
	MaterialOrderOrdered   MaterialOrderStatus = "ordered"
	MaterialOrderDelivered MaterialOrderStatus = "delivered"
	MaterialOrderCompleted MaterialOrderStatus = "completed"
	MaterialOrderCancelled MaterialOrderStatus = "cancelled"
)

func (t *MaterialOrderStatus) UnmarshalJSON(b []byte) error {
	str := unquote(b)
	statuses := map[string]MaterialOrderStatus{
		"draft":     MaterialOrderDraft,
		"ordered":   MaterialOrderOrdered,
		"delivered": MaterialOrderDelivered,
		"completed": MaterialOrderCompleted,
		"cancelled": MaterialOrderCancelled,
	}
	v, ok := statuses[str]
	if !ok {
		return errors.New("invalid material order status")
	}
	*t = v
	return nil
}

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusIssued    InvoiceStatus = "issued"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

type SurveyStatus string

const (
	SurveyStatusScheduled  SurveyStatus = "scheduled"
	SurveyStatusInProgress SurveyStatus = "in_progress"
	SurveyStatusCompleted  SurveyStatus = "completed"
	SurveyStatusCancelled  SurveyStatus = "cancelled"
)

func (t *SurveyStatus) UnmarshalJSON(b []byte) error {
	str := unquote(b)
	statuses := map[string]SurveyStatus{
		"scheduled":   SurveyStatusScheduled,
		"in_progress": SurveyStatusInProgress,
		"completed":   SurveyStatusCompleted,
		"cancelled":   SurveyStatusCancelled,
	}
	v, ok := statuses[str]
	if !ok {
		return errors.New("invalid survey status")
	}
	*t = v
	return nil
}

type SurveyPhotoType string

const (
	SurveyPhotoExterior   SurveyPhotoType = "exterior"
	SurveyPhotoWall       SurveyPhotoType = "wall"
	SurveyPhotoDamage     SurveyPhotoType = "damage"
	SurveyPhotoFoundation SurveyPhotoType = "foundation"
	SurveyPhotoOther      SurveyPhotoType = "other"
)

type StepStatus string

const (
	StepStatusNotStarted StepStatus = "not_started"
	StepStatusInProgress StepStatus = "in_progress"
	StepStatusCompleted  StepStatus = "completed"
	StepStatusSkipped    StepStatus = "skipped"
)

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleStaff    UserRole = "staff"
	UserRoleSurveyor UserRole = "surveyor"
)

func unquote(b []byte) string {
	return strings.Trim(string(b), `"`)
}

// DateString is a date-only field serialized as "2006-01-02".
// Times are interpreted in the business timezone (Asia/Tokyo by default).
type DateString time.Time

const dateLayout = "2006-01-02"

func (t DateString) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).Format(dateLayout) + `"`), nil
}

func (t *DateString) UnmarshalJSON(b []byte) error {
	str := unquote(b)
	if str == "" || str == "null" {
		*t = DateString(time.Time{})
		return nil
	}
	parsed, err := time.Parse(dateLayout, str)
	if err != nil {
		// accept full datetime too
		parsed, err = time.Parse("2006-01-02T15:04:05", str)
		if err != nil {
			return errors.New("error parsing date")
		}
	}
	*t = DateString(parsed)
	return nil
}

// Value implements the driver.Valuer interface
func (t DateString) Value() (driver.Value, error) {
	return time.Time(t), nil
}

// Scan implements the sql.Scanner interface
func (t *DateString) Scan(value interface{}) error {
	if value == nil {
		*t = DateString(time.Time{})
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*t = DateString(v)
	default:
		return fmt.Errorf("cannot convert %T to DateString", value)
	}
	return nil
}

func (t *DateString) Time() time.Time {
	if t == nil {
		return time.Time{}
	}
	return time.Time(*t)
}

func (t *DateString) IsZero() bool {
	return t == nil || time.Time(*t).IsZero()
}

func (t *DateString) StartOfDayUTCTime(timezone string) error {
	// do nothing if the pointer is nil
	if t == nil {
		return nil
	}

	localTime := time.Time(*t)

	if timezone == "" {
		timezone = "Asia/Tokyo"
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}

	localTimeInZone := time.Date(
		localTime.Year(), localTime.Month(), localTime.Day(),
		0, 0, 0, 0,
		location,
	)
	*t = DateString(localTimeInZone.In(time.UTC))

	return nil
}

func (t *DateString) EndOfDayUTCTime(timezone string) error {
	// do nothing if the pointer is nil
	if t == nil {
		return nil
	}

	localTime := time.Time(*t)

	if timezone == "" {
		timezone = "Asia/Tokyo"
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}

	localTimeInZone := time.Date(
		localTime.Year(), localTime.Month(), localTime.Day(),
		23, 59, 59, 999,
		location,
	)
	*t = DateString(localTimeInZone.In(time.UTC))

	return nil
}
