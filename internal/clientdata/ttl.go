package clientdata

import "time"

// TTL constants for different data types.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// Filed documents never change once published
	TTLSecSection = 30 * 24 * time.Hour

	// Static company info and statements that only move with filings
	TTLProfile         = 7 * 24 * time.Hour
	TTLIncomeStatement = 7 * 24 * time.Hour

	// Basic financials carry price-derived ratios that drift daily
	TTLBasicFinancials = 24 * time.Hour
)
