// AngelaMos | 2026
// stats.go

package dashboard

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/agrourbano/farmdash/internal/core"
)

const statsPingTimeout = 2 * time.Second

type DBSource interface {
	Ping(ctx context.Context) error
	Stats() sql.DBStats
}

type RedisSource interface {
	Ping(ctx context.Context) error
	PoolStats() *redis.PoolStats
}

// StatsHandler reports pool and runtime figures to administrators.
type StatsHandler struct {
	db      DBSource
	redis   RedisSource
	version string
	started time.Time
}

func NewStatsHandler(db DBSource, rdb RedisSource, version string) *StatsHandler {
	return &StatsHandler{
		db:      db,
		redis:   rdb,
		version: version,
		started: time.Now(),
	}
}

func (h *StatsHandler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/stats", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.System)
		r.Get("/db", h.Database)
		r.Get("/redis", h.Redis)
		r.Get("/runtime", h.Runtime)
	})
}

func (h *StatsHandler) System(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), statsPingTimeout)
	defer cancel()

	resp := SystemStats{
		Version: h.version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Runtime: readRuntime(),
	}

	if h.db != nil {
		resp.Database = &DatabaseStatus{
			Healthy: h.db.Ping(ctx) == nil,
			Pool:    dbPool(h.db.Stats()),
		}
	}

	if h.redis != nil {
		resp.Redis = &RedisStatus{
			Healthy: h.redis.Ping(ctx) == nil,
			Pool:    redisPool(h.redis.PoolStats()),
		}
	}

	core.OK(w, resp)
}

func (h *StatsHandler) Database(w http.ResponseWriter, _ *http.Request) {
	if h.db == nil {
		core.NotFound(w, "database")
		return
	}
	core.OK(w, dbPool(h.db.Stats()))
}

func (h *StatsHandler) Redis(w http.ResponseWriter, _ *http.Request) {
	if h.redis == nil {
		core.NotFound(w, "redis")
		return
	}
	core.OK(w, redisPool(h.redis.PoolStats()))
}

func (h *StatsHandler) Runtime(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, readRuntime())
}

func readRuntime() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		HeapAlloc:    mem.HeapAlloc,
		Sys:          mem.Sys,
		NumGC:        mem.NumGC,
	}
}

func dbPool(s sql.DBStats) DBPoolStats {
	return DBPoolStats{
		MaxOpen:      s.MaxOpenConnections,
		Open:         s.OpenConnections,
		InUse:        s.InUse,
		Idle:         s.Idle,
		WaitCount:    s.WaitCount,
		WaitDuration: s.WaitDuration.String(),
	}
}

func redisPool(s *redis.PoolStats) RedisPoolStats {
	if s == nil {
		return RedisPoolStats{}
	}
	return RedisPoolStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
		StaleConns: s.StaleConns,
	}
}

type SystemStats struct {
	Version  string          `json:"version"`
	Uptime   string          `json:"uptime"`
	Database *DatabaseStatus `json:"database,omitempty"`
	Redis    *RedisStatus    `json:"redis,omitempty"`
	Runtime  RuntimeStats    `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool        `json:"healthy"`
	Pool    DBPoolStats `json:"pool"`
}

type RedisStatus struct {
	Healthy bool           `json:"healthy"`
	Pool    RedisPoolStats `json:"pool"`
}

type DBPoolStats struct {
	MaxOpen      int    `json:"max_open"`
	Open         int    `json:"open"`
	InUse        int    `json:"in_use"`
	Idle         int    `json:"idle"`
	WaitCount    int64  `json:"wait_count"`
	WaitDuration string `json:"wait_duration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	HeapAlloc    uint64 `json:"heap_alloc_bytes"`
	Sys          uint64 `json:"sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
