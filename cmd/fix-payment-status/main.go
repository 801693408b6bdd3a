// fix-payment-status normalizes legacy subcontract payment data:
//   - statuses outside the known set collapse to "pending"
//   - rows marked paid without a payment date get one stamped
//
// A redis lock guards against concurrent runs (the tool rewrites rows
// in place, so two instances would race).
//
// Usage:
//   go run ./cmd/fix-payment-status            # dry run
//   go run ./cmd/fix-payment-status -apply
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/bsm/redislock"
	"github.com/joho/godotenv"
	"github.com/mmdatafocus/dispatch_backend/config"
	"github.com/mmdatafocus/dispatch_backend/models"
	"gorm.io/gorm"
)

const lockKey = "fix-payment-status"

func main() {
	apply := flag.Bool("apply", false, "write changes (default is dry run)")
	flag.Parse()

	_ = godotenv.Load()
	ctx := context.Background()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	config.ConnectRedisWithRetry()

	locker := config.GetRedisLock()
	if locker != nil {
		lock, err := locker.Obtain(ctx, lockKey, 10*time.Minute, nil)
		if err == redislock.ErrNotObtained {
			fmt.Fprintln(os.Stderr, "another fix-payment-status run is in progress")
			os.Exit(1)
		} else if err != nil {
			fmt.Fprintf(os.Stderr, "lock: %v\n", err)
			os.Exit(1)
		}
		defer lock.Release(ctx)
	}

	var subcontracts []*models.Subcontract
	if err := db.WithContext(ctx).Find(&subcontracts).Error; err != nil {
		fmt.Fprintf(os.Stderr, "load subcontracts: %v\n", err)
		os.Exit(1)
	}

	known := map[models.SubcontractPaymentStatus]bool{
		models.SubcontractPaymentPending:    true,
		models.SubcontractPaymentProcessing: true,
		models.SubcontractPaymentPaid:       true,
	}

	todayTime := time.Now()
	today := models.DateString(todayTime)
	fixed := 0
	for _, sc := range subcontracts {
		changed := false
		if !known[sc.PaymentStatus] {
			fmt.Printf("subcontract %d: status %q -> %q\n", sc.ID, sc.PaymentStatus, models.SubcontractPaymentPending)
			sc.PaymentStatus = models.SubcontractPaymentPending
			changed = true
		}
		if sc.PaymentStatus == models.SubcontractPaymentPaid && (sc.PaymentDate == nil || sc.PaymentDate.IsZero()) {
			fmt.Printf("subcontract %d: paid without payment date, stamping %s\n", sc.ID, todayTime.Format("2006-01-02"))
			sc.PaymentDate = &today
			changed = true
		}
		if !changed {
			continue
		}
		fixed++
		if !*apply {
			continue
		}
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Model(&models.Subcontract{}).Where("id = ?", sc.ID).
				Updates(map[string]any{
					"payment_status": sc.PaymentStatus,
					"payment_date":   sc.PaymentDate,
				}).Error
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "subcontract %d: %v\n", sc.ID, err)
			os.Exit(1)
		}
		_ = models.ClearResourceCache[models.Subcontract](sc.ID)
	}

	if *apply {
		fmt.Printf("fixed %d subcontracts\n", fixed)
	} else {
		fmt.Printf("dry run: %d subcontracts would change (rerun with -apply)\n", fixed)
	}
}
