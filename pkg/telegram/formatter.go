package telegram

import (
	"fmt"
	"time"
)

// FormatParkedEntryMessage formats the alert sent when a queue entry has
// exhausted its retries and is moved to the failed stream.
func FormatParkedEntryMessage(at time.Time, entryID, sourceID string, tickers []string) string {
	return fmt.Sprintf("⚠️ *Sentiment worker: entry parked*\nTime: %s\nEntry: `%s`\nPost: `%s`\nTickers: `%v`\nThe entry was moved to the failed stream after exceeding max retries.",
		at.Format(time.RFC3339), entryID, sourceID, tickers)
}

// FormatErrorAlertMessage formats a generic operator error alert.
func FormatErrorAlertMessage(at time.Time, message string) string {
	return fmt.Sprintf("🚨 *Error Alert*\nTime: %s\n%s", at.Format(time.RFC3339), message)
}
