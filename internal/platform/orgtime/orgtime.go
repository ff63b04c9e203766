package orgtime

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTimezone es la zona horaria organizacional fija.
	// Todos los registros de asistencia se calculan contra esta zona,
	// nunca contra el reloj local del dispositivo que escanea.
	DefaultTimezone = "America/Mexico_City"

	// DayLayout es el formato del día calendario usado como partition key diario.
	DayLayout = "2006-01-02"
)

// Stamp es el resultado de consultar la autoridad de tiempo:
// instante, día calendario y si el clock-in sería tarde.
type Stamp struct {
	Instant time.Time
	Day     string
	Late    bool
}

// Authority deriva instante/día/tardanza desde una única zona fija.
// El cutoff de tardanza es exclusivo: exactamente a la hora límite NO es tarde.
type Authority struct {
	loc        *time.Location
	cutoffHour int
	cutoffMin  int

	nowFn func() time.Time
}

type Options struct {
	Timezone string // IANA, default DefaultTimezone
	Cutoff   string // "HH:MM", default "09:00"
}

func New(opts Options) (*Authority, error) {
	tz := strings.TrimSpace(opts.Timezone)
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("orgtime: invalid timezone %q: %w", tz, err)
	}

	h, m, err := parseCutoff(opts.Cutoff)
	if err != nil {
		return nil, err
	}

	return &Authority{
		loc:        loc,
		cutoffHour: h,
		cutoffMin:  m,
		nowFn:      time.Now,
	}, nil
}

// NewFromEnv crea la autoridad desde env:
// - ORG_TIMEZONE=America/Mexico_City (opcional)
// - LATE_CUTOFF=09:00 (opcional)
func NewFromEnv() (*Authority, error) {
	return New(Options{
		Timezone: os.Getenv("ORG_TIMEZONE"),
		Cutoff:   os.Getenv("LATE_CUTOFF"),
	})
}

// Now devuelve instante, día calendario y tardanza, todos en la zona fija.
func (a *Authority) Now() Stamp {
	return a.At(a.nowFn())
}

// At normaliza un instante arbitrario a la zona fija.
func (a *Authority) At(t time.Time) Stamp {
	local := t.In(a.loc)
	return Stamp{
		Instant: local,
		Day:     local.Format(DayLayout),
		Late:    a.isLate(local),
	}
}

// Day devuelve el día calendario de un instante en la zona fija.
func (a *Authority) Day(t time.Time) string {
	return t.In(a.loc).Format(DayLayout)
}

// SetNow inyecta un reloj fijo (tests).
func (a *Authority) SetNow(fn func() time.Time) {
	if fn != nil {
		a.nowFn = fn
	}
}

// isLate: estrictamente después del cutoff. A las 09:00:00.000 exacto no es tarde.
func (a *Authority) isLate(local time.Time) bool {
	cutoff := time.Date(local.Year(), local.Month(), local.Day(), a.cutoffHour, a.cutoffMin, 0, 0, a.loc)
	return local.After(cutoff)
}

func parseCutoff(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 9, 0, nil
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("orgtime: cutoff must be HH:MM, got %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("orgtime: cutoff must be HH:MM, got %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("orgtime: cutoff must be HH:MM, got %q", s)
	}
	return h, m, nil
}
