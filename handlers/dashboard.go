package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/dispatch_backend/models"
	"github.com/mmdatafocus/dispatch_backend/models/reports"
	"github.com/mmdatafocus/dispatch_backend/utils"
)

func yearMonthParams(c *gin.Context) (int, time.Month) {
	now := time.Now()
	year := queryInt(c, "year", now.Year())
	month := queryInt(c, "month", int(now.Month()))
	if month < 1 || month > 12 {
		month = int(now.Month())
	}
	return year, time.Month(month)
}

func GetAccountingDashboard(c *gin.Context) {
	year, month := yearMonthParams(c)
	result, err := reports.GetAccountingDashboard(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func GetReceiptDashboard(c *gin.Context) {
	year, month := yearMonthParams(c)
	result, err := reports.GetReceiptDashboard(c.Request.Context(), year, month, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func GetPaymentDashboard(c *gin.Context) {
	year, month := yearMonthParams(c)
	filter := reports.PaymentDashboardFilter{
		Status:       c.Query("status"),
		ContractorId: queryInt(c, "contractor_id", 0),
		WorkerType:   models.WorkerType(c.Query("worker_type")),
		PaymentCycle: models.PaymentCycle(c.Query("payment_cycle")),
	}
	if v := c.Query("min_amount"); v != "" {
		if d, err := utils.ParseDecimal(v); err == nil {
			filter.MinAmount = &d
		}
	}
	if v := c.Query("max_amount"); v != "" {
		if d, err := utils.ParseDecimal(v); err == nil {
			filter.MaxAmount = &d
		}
	}
	switch c.Query("has_bank_info") {
	case "true", "1":
		filter.HasBankInfo = utils.NewTrue()
	case "false", "0":
		filter.HasBankInfo = utils.NewFalse()
	}
	result, err := reports.GetPaymentDashboard(c.Request.Context(), year, month, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func GetCostDashboard(c *gin.Context) {
	year, month := yearMonthParams(c)
	result, err := reports.GetCostDashboard(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func GetAnnualPerformance(c *gin.Context) {
	fiscalYear := queryInt(c, "fiscal_year", utils.FiscalYearOf(time.Now()))
	result, err := reports.GetAnnualPerformance(c.Request.Context(), fiscalYear)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func GetUltimateDashboard(c *gin.Context) {
	result, err := reports.GetUltimateDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func ExportLedgerExcel(c *gin.Context) {
	year, month := yearMonthParams(c)
	f, err := reports.ExportLedgerExcel(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()
	filename := fmt.Sprintf("ledger_%d%02d.xlsx", year, int(month))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", excelContentType)
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

func ExportAnnualExcel(c *gin.Context) {
	fiscalYear := queryInt(c, "fiscal_year", utils.FiscalYearOf(time.Now()))
	f, err := reports.ExportAnnualExcel(c.Request.Context(), fiscalYear)
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()
	filename := fmt.Sprintf("annual_performance_%d.xlsx", fiscalYear)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", excelContentType)
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
