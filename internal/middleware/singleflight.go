package middleware

import (
	"net/http"
	"sync"
)

// StationSingleFlight rechaza un escaneo nuevo mientras la misma estación
// todavía tiene uno en proceso (la UI de la estación asume lo mismo, esto
// lo refuerza en el borde del servicio). Estaciones distintas no se
// bloquean entre sí. Requests sin estación identificada pasan directo.
func StationSingleFlight() func(http.Handler) http.Handler {
	var mu sync.Mutex
	inflight := make(map[string]struct{})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || claims.StationID == "" {
				next.ServeHTTP(w, r)
				return
			}

			mu.Lock()
			if _, busy := inflight[claims.StationID]; busy {
				mu.Unlock()
				http.Error(w, "station busy: scan in progress", http.StatusConflict)
				return
			}
			inflight[claims.StationID] = struct{}{}
			mu.Unlock()

			defer func() {
				mu.Lock()
				delete(inflight, claims.StationID)
				mu.Unlock()
			}()

			next.ServeHTTP(w, r)
		})
	}
}
