package jobs

import (
	"context"
	"time"

	"librental-backend/internal/domain"
	"librental-backend/internal/logger"
)

// SendOverdueReminders emails renters whose active rentals are past
// their expected return date. It never changes the rental status;
// returns are recorded only when the book actually comes back.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()
		today := time.Now().UTC().Format("2006-01-02")

		rentals, err := jr.store.RentalRepository.ListActivePastDue(ctx, today)
		if err != nil {
			logger.Error("Failed to load past-due rentals", "error", err)
			return
		}

		sent := 0
		for _, rental := range rentals {
			// Guest intakes without a real address cannot be reached.
			if rental.Email == "" || rental.Email == domain.DefaultEmail {
				continue
			}
			err := jr.email.SendOverdueReminder(ctx, rental.Email, rental.RenterName, rental.BookTitle, rental.ReturnDate)
			if err != nil {
				logger.Error("Failed to send overdue reminder",
					"rental_id", rental.ID,
					"email", rental.Email,
					"error", err)
				continue
			}
			sent++
			logger.Debug("Sent overdue reminder",
				"rental_id", rental.ID,
				"book", rental.BookTitle,
				"return_date", rental.ReturnDate)
		}

		logger.Info("Overdue reminders sent", "past_due", len(rentals), "sent", sent)
	})
}
