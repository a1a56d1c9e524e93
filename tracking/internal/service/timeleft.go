package service

import (
	"fmt"
	"time"
)

// PreparationWindow is how long an order takes from placement to ready.
const PreparationWindow = 30 * time.Minute

// TimeLeft is the remaining preparation time of an order created at
// createdAt. It never goes below zero.
func TimeLeft(createdAt time.Time, now time.Time) time.Duration {
	left := createdAt.Add(PreparationWindow).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// FormatTimeLeft renders d as whole minutes and seconds, e.g. "10m 0s".
func FormatTimeLeft(d time.Duration) string {
	seconds := int64(d / time.Second)
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
