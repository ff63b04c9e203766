package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Las keys de registro son {día}_{milisEpoch}_{sufijo}: el día permite
// el guard de idempotencia por prefijo, los milis ordenan los registros
// del día, y el sufijo aleatorio evita la colisión de dos escaneos en el
// mismo milisegundo (dos clock-ins el mismo día producen SIEMPRE dos
// registros distintos, nunca se pisan).

func newClockInKey(day string, instant time.Time) string {
	return fmt.Sprintf("%s_%d_%s", day, instant.UnixMilli(), keySuffix())
}

// newClockOutOnlyKey genera la key del registro standalone que crea el
// cierre degradado (no había registro abierto que cerrar).
func newClockOutOnlyKey(day string, instant time.Time) string {
	return newClockInKey(day, instant) + "_out"
}

func keySuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// dayOfKey devuelve el prefijo de día calendario de una key.
func dayOfKey(key string) string {
	day, _, ok := strings.Cut(key, "_")
	if !ok {
		return ""
	}
	return day
}
