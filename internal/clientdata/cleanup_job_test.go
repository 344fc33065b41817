package clientdata

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupJobName(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	job := NewCleanupJob(NewRepository(db), zerolog.Nop())
	assert.Equal(t, "client_data_cleanup", job.Name())
}

func TestCleanupJobRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	job := NewCleanupJob(NewRepository(db), zerolog.Nop())

	now := time.Now()
	expiredAt := now.Add(-time.Hour).Unix()
	freshAt := now.Add(time.Hour).Unix()

	insertExpiredAndFresh(t, db, TableFinnhubProfile, expiredAt, freshAt)
	insertExpiredAndFresh(t, db, TableYahooIncomeStatement, expiredAt, freshAt)
	insertExpiredAndFresh(t, db, TableSecAPISections, expiredAt, freshAt)

	require.NoError(t, job.Run())

	var countAfter int
	err := db.QueryRow("SELECT (SELECT COUNT(*) FROM finnhub_profile) + (SELECT COUNT(*) FROM yahoo_income_statement) + (SELECT COUNT(*) FROM secapi_sections)").Scan(&countAfter)
	require.NoError(t, err)
	assert.Equal(t, 3, countAfter)
}

func TestCleanupJobRun_EmptyTables(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	job := NewCleanupJob(NewRepository(db), zerolog.Nop())
	assert.NoError(t, job.Run())
}
