package jobs

import (
	"context"
	"fmt"
	"time"

	"carloc-backend/internal/calendar"
	"carloc-backend/internal/logger"
)

// ActivateReservations moves reservations whose start date has arrived from
// UPCOMING to ACTIVE. Only accepted reservations activate.
func (jr *JobRunner) ActivateReservations() {
	jr.runWithRecovery("ActivateReservations", func() {
		ctx := context.Background()

		query := `
			UPDATE reservations
			SET status = 'ACTIVE',
			    updated_on = NOW()
			WHERE status = 'UPCOMING'
			  AND validation = 'ACCEPTED'
			  AND start_date <= $1
			RETURNING id, vehicle_id, renter_id, start_date
		`

		// Day boundaries follow the booking engine's reference timezone, not UTC.
		rows, err := jr.db.QueryContext(ctx, query, calendar.DayOf(time.Now()).String())
		if err != nil {
			logger.Error("Failed to activate reservations", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id, vehicleID, renterID int
			var startDate string
			if err := rows.Scan(&id, &vehicleID, &renterID, &startDate); err != nil {
				logger.Error("Failed to scan activated reservation", "error", err)
				continue
			}
			logger.Debug("Activated reservation",
				"reservation_id", id,
				"vehicle_id", vehicleID,
				"renter_id", renterID,
				"start_date", startDate)
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating activated reservations", "error", err)
			return
		}

		logger.Info("Activated reservations", "count", count)
	})
}

// CompleteReservations moves reservations past their end date from ACTIVE to
// COMPLETED.
func (jr *JobRunner) CompleteReservations() {
	jr.runWithRecovery("CompleteReservations", func() {
		ctx := context.Background()

		query := `
			UPDATE reservations
			SET status = 'COMPLETED',
			    updated_on = NOW()
			WHERE status = 'ACTIVE'
			  AND end_date < $1
		`

		result, err := jr.db.ExecContext(ctx, query, calendar.DayOf(time.Now()).String())
		if err != nil {
			logger.Error("Failed to complete reservations", "error", err)
			return
		}
		count, _ := result.RowsAffected()
		logger.Info("Completed reservations", "count", count)
	})
}

// PurgeUnpaidPending cancels unpaid reservation requests older than the
// configured expiry so their days go back on the market.
func (jr *JobRunner) PurgeUnpaidPending() {
	jr.runWithRecovery("PurgeUnpaidPending", func() {
		ctx := context.Background()

		cutoff := fmt.Sprintf("%d hours", jr.config.Booking.UnpaidExpiryHours)
		query := `
			UPDATE reservations
			SET status = 'CANCELLED',
			    updated_on = NOW()
			WHERE status = 'UPCOMING'
			  AND paid = FALSE
			  AND created_on < NOW() - $1::interval
		`

		result, err := jr.db.ExecContext(ctx, query, cutoff)
		if err != nil {
			logger.Error("Failed to purge unpaid reservations", "error", err)
			return
		}
		count, _ := result.RowsAffected()
		logger.Info("Purged unpaid pending reservations", "count", count, "older_than", cutoff)
	})
}
