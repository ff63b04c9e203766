package router

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	mem "attendance-engine/internal/adapters/storage/memory"
	pg "attendance-engine/internal/adapters/storage/postgres"
	"attendance-engine/internal/domain/attendance"
	"attendance-engine/internal/domain/schedule"
	"attendance-engine/internal/domain/subjects"
	"attendance-engine/internal/middleware"
	"attendance-engine/internal/platform/bus"
	"attendance-engine/internal/platform/cache"
	"attendance-engine/internal/platform/logger"
	"attendance-engine/internal/platform/orgtime"
	"attendance-engine/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev: X-Station-ID)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: reloj organizacional ya configurado (tests). Si es nil se
	// crea desde env (ORG_TIMEZONE / LATE_CUTOFF).
	Clock *orgtime.Authority

	// Opcional: bus compartido (para colgar el webhook notifier afuera).
	Bus *bus.Bus

	Logger logger.Logger

	CacheTTL time.Duration
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.StationContext(opts.AuthVerifier))
	r.Use(middleware.StationSingleFlight())

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler())

	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	clock := opts.Clock
	if clock == nil {
		c, err := orgtime.NewFromEnv()
		if err != nil {
			// Config rota: mejor arrancar con los defaults que no arrancar.
			log.Error("invalid org time config, using defaults", map[string]any{"cause": err})
			c, _ = orgtime.New(orgtime.Options{})
		}
		clock = c
	}

	b := opts.Bus
	if b == nil {
		b = bus.New(log)
	}

	var (
		subjectsRepo subjects.Repository
		scheduleRepo schedule.Repository
		attRepo      attendance.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		repo := pg.NewSubjectsRepo(db)
		subjectsRepo = repo
		attRepo = repo
		scheduleRepo = pg.NewScheduleRepo(db)
	} else {
		repo := mem.NewSubjectsRepo()
		subjectsRepo = repo
		attRepo = repo
		scheduleRepo = mem.NewScheduleRepo()
	}

	subjectCache := cache.New[subjects.Subject](opts.CacheTTL)

	// Services por módulo
	subjectsSvc := subjects.NewService(subjectsRepo)
	scheduleSvc := schedule.NewService(scheduleRepo, clock)
	attendanceSvc := attendance.NewService(attRepo, scheduleSvc, clock, subjectCache, b, log)

	// Rutas por módulo
	subjects.RegisterRoutes(r, subjectsSvc)
	schedule.RegisterRoutes(r, scheduleSvc)
	attendance.RegisterRoutes(r, attendanceSvc)

	return r
}
