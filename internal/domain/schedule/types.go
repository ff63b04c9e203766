package schedule

// Category es el token canónico de tipo de evento. Es un set cerrado:
// todo string libre que llega de agendas o tipos de junta pasa por
// Normalize antes de tocar storage o matching.
type Category string

const (
	CategoryGeneralMeeting Category = "generalmeeting"
	CategoryJuntaHacienda  Category = "juntahacienda"
	CategoryMeetings       Category = "meetings"
	CategoryWorkshops      Category = "workshops"
	CategoryHaciendas      Category = "haciendas"
	CategoryGestion        Category = "gestion"
)

// Canonical reporta si la categoría pertenece al set cerrado.
func (c Category) Canonical() bool {
	switch c {
	case CategoryGeneralMeeting, CategoryJuntaHacienda, CategoryMeetings,
		CategoryWorkshops, CategoryHaciendas, CategoryGestion:
		return true
	}
	return false
}
