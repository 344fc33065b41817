package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/finsight/internal/api"
	"github.com/aristath/finsight/internal/database"
	"github.com/aristath/finsight/internal/scheduler"
)

// Version is reported by /health. Overridden at build time with -ldflags.
var Version = "dev"

// SystemHandlers serves operational endpoints.
type SystemHandlers struct {
	log       zerolog.Logger
	cacheDB   *database.DB
	scheduler *scheduler.Scheduler
}

// NewSystemHandlers creates system handlers. cacheDB may be nil when the
// provider cache is disabled.
func NewSystemHandlers(log zerolog.Logger, cacheDB *database.DB, sched *scheduler.Scheduler) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("handler", "system").Logger(),
		cacheDB:   cacheDB,
		scheduler: sched,
	}
}

// CacheStatus reports the provider cache database state.
type CacheStatus struct {
	Enabled bool   `json:"enabled"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status     string                `json:"status"`
	Service    string                `json:"service"`
	Version    string                `json:"version"`
	Cache      CacheStatus           `json:"cache"`
	CPUPercent float64               `json:"cpu_percent"`
	RAMPercent float64               `json:"ram_percent"`
	Jobs       []scheduler.JobStatus `json:"jobs"`
}

// HandleHealth handles GET /health. A failing cache database degrades the
// service and answers 503.
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Service: "finsight",
		Version: Version,
		Cache:   h.cacheStatus(r.Context()),
		Jobs:    []scheduler.JobStatus{},
	}

	if h.scheduler != nil {
		response.Jobs = h.scheduler.Status()
	}

	response.CPUPercent, response.RAMPercent = h.getSystemStats()

	status := http.StatusOK
	if response.Cache.Status == "error" {
		response.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	api.WriteJSON(w, r, status, response)
}

func (h *SystemHandlers) cacheStatus(ctx context.Context) CacheStatus {
	if h.cacheDB == nil {
		return CacheStatus{Enabled: false, Status: "disabled"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.cacheDB.QuickCheck(ctx); err != nil {
		h.log.Error().Err(err).Msg("Cache database health check failed")
		return CacheStatus{Enabled: true, Status: "error", Error: err.Error()}
	}
	return CacheStatus{Enabled: true, Status: "ok"}
}

// getSystemStats returns CPU and RAM usage percentages.
// CPU is sampled over 100ms to keep the endpoint fast.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
