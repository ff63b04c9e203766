package auth

// Claims representa la identidad de la estación de escaneo (y el operador
// logueado en ella, si lo hay). La autenticación real vive fuera del core;
// aquí solo consumimos el resultado.
type Claims struct {
	StationID  string
	OperatorID string
}
