package schedule

import "strings"

// Tabla de sinónimos: variantes históricas de las agendas (mayúsculas,
// espacios, guiones bajos, singular/plural, acentos) colapsadas al token
// canónico. Las entradas canónicas se mapean a sí mismas para que
// Normalize sea idempotente.
var synonyms = map[string]Category{
	"generalmeeting":  CategoryGeneralMeeting,
	"generalmeetings": CategoryGeneralMeeting,

	"juntahacienda":   CategoryJuntaHacienda,
	"juntadehacienda": CategoryJuntaHacienda,
	"juntashacienda":  CategoryJuntaHacienda,

	"meeting":  CategoryMeetings,
	"meetings": CategoryMeetings,
	"junta":    CategoryMeetings,
	"juntas":   CategoryMeetings,

	"workshop":  CategoryWorkshops,
	"workshops": CategoryWorkshops,
	"taller":    CategoryWorkshops,
	"talleres":  CategoryWorkshops,

	"hacienda":  CategoryHaciendas,
	"haciendas": CategoryHaciendas,

	"gestion":   CategoryGestion,
	"gestiones": CategoryGestion,
}

var accents = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n",
)

// Normalize colapsa un string libre de categoría al token canónico.
// Es total: categorías desconocidas pasan igual, en minúsculas y sin
// espacios/guiones, para que al menos sean estables como clave.
func Normalize(raw string) Category {
	key := collapse(raw)
	if c, ok := synonyms[key]; ok {
		return c
	}
	return Category(key)
}

func collapse(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = accents.Replace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '\t', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
