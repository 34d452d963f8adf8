package handler

import (
	"crypto/subtle"
	"net/http"
	"runtime"
	"time"

	"freshguard-api/internal/repository"
	"freshguard-api/pkg/apierror"
	"freshguard-api/pkg/response"
)

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	store     repository.Store
	storeType string
	cacheType string
	loginKey  string
	startTime time.Time
}

// NewAdminHandler creates a new admin handler. An empty loginKey disables
// the admin endpoints.
func NewAdminHandler(store repository.Store, storeType, cacheType, loginKey string) *AdminHandler {
	return &AdminHandler{
		store:     store,
		storeType: storeType,
		cacheType: cacheType,
		loginKey:  loginKey,
		startTime: time.Now(),
	}
}

func (h *AdminHandler) authorized(r *http.Request) bool {
	if h.loginKey == "" {
		return false
	}
	key := r.Header.Get("X-Login-Key")
	return subtle.ConstantTimeCompare([]byte(key), []byte(h.loginKey)) == 1
}

// GetStats handles GET /api/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		response.Error(w, apierror.Unauthorized("Invalid login key"))
		return
	}

	ctx := r.Context()
	stats := make(map[string]interface{})

	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().UTC().Format(time.RFC3339)
	stats["storage_type"] = h.storeType
	stats["cache_type"] = h.cacheType

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":      float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":        float64(memStats.Sys) / 1024 / 1024,
		"heap_inuse_mb": float64(memStats.HeapInuse) / 1024 / 1024,
		"num_gc":        memStats.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}

	storeStats, err := h.store.GetStats(ctx)
	if err == nil {
		storeStats["status"] = "connected"
		stats["storage"] = storeStats
	} else {
		logError(r, err)
		stats["storage"] = map[string]interface{}{
			"status": "error",
		}
	}

	stats["runtime"] = map[string]interface{}{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       runtime.NumCPU(),
	}

	response.OK(w, stats)
}
