package model

// Coordinates locate an event on the map.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Event is a catalog entry. Price is in whole AOA.
type Event struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	Category          string       `json:"category"`
	Date              string       `json:"date"` // YYYY-MM-DD
	Location          string       `json:"location"`
	Price             int64        `json:"price"`
	ImageURL          string       `json:"image_url"`
	OrganizerID       string       `json:"organizer_id"`
	OrganizerWhatsapp string       `json:"organizer_whatsapp"`
	Highlighted       bool         `json:"highlighted"`
	Coordinates       *Coordinates `json:"coordinates,omitempty"`
}

// CategoryAll selects every category in a search.
const CategoryAll = "Todos"

// DefaultCategory labels events without a category.
const DefaultCategory = "Geral"

// Categories lists the filters offered by the catalog, CategoryAll first.
var Categories = []string{
	CategoryAll,
	"Música",
	"Teatro",
	"Arte & Exposição",
	"Workshop",
	"Festivais",
	"Gastronomia",
	"Infantil",
	"Outros",
}

// CategoryOrDefault returns the event category or DefaultCategory.
func (e Event) CategoryOrDefault() string {
	if e.Category == "" {
		return DefaultCategory
	}
	return e.Category
}

// SeedEvents returns a fresh copy of the built-in catalog.
func SeedEvents() []Event {
	out := make([]Event, len(seedEvents))
	for i, e := range seedEvents {
		if e.Coordinates != nil {
			c := *e.Coordinates
			e.Coordinates = &c
		}
		out[i] = e
	}
	return out
}

const seedWhatsapp = "244900000000"

var seedEvents = []Event{
	{
		ID:                "1",
		Title:             "Festival de Jazz de Luanda",
		Description:       "Uma noite mágica com os melhores saxofonistas de Angola e convidados internacionais na orla da capital.",
		Category:          "Música",
		Date:              "2025-04-15",
		Location:          "Baía de Luanda",
		Price:             15000,
		ImageURL:          "https://images.unsplash.com/photo-1511192336575-5a79af67a629?q=80&w=1000&auto=format&fit=crop",
		OrganizerID:       "org1",
		OrganizerWhatsapp: seedWhatsapp,
		Highlighted:       true,
		Coordinates:       &Coordinates{Lat: -8.8147, Lng: 13.2302},
	},
	{
		ID:                "2",
		Title:             "Exposição: Futurismo Africano",
		Description:       "Obras inéditas de jovens artistas angolanos explorando a tecnologia e tradição em instalações imersivas.",
		Category:          "Arte & Exposição",
		Date:              "2025-05-20",
		Location:          "Galeria H.O",
		Price:             5000,
		ImageURL:          "https://images.unsplash.com/photo-1547826039-bfc35e0f1ea8?q=80&w=1000&auto=format&fit=crop",
		OrganizerID:       "org2",
		OrganizerWhatsapp: seedWhatsapp,
		Coordinates:       &Coordinates{Lat: -8.8205, Lng: 13.2405},
	},
	{
		ID:                "3",
		Title:             "Teatro: As Vedetas do Mussulo",
		Description:       "Uma comédia emocionante que retrata a vida cotidiana e os sonhos das gentes do litoral.",
		Category:          "Teatro",
		Date:              "2025-06-05",
		Location:          "Elinga Teatro",
		Price:             8000,
		ImageURL:          "https://images.unsplash.com/photo-1507676184212-d03ab07a01bf?q=80&w=1000&auto=format&fit=crop",
		OrganizerID:       "org1",
		OrganizerWhatsapp: seedWhatsapp,
		Highlighted:       true,
		Coordinates:       &Coordinates{Lat: -8.8118, Lng: 13.2356},
	},
	{
		ID:                "4",
		Title:             "Workshop: Kizomba & Semba Masterclass",
		Description:       "Aprenda os passos fundamentais e as variações modernas das danças que conquistaram o mundo.",
		Category:          "Workshop",
		Date:              "2025-03-28",
		Location:          "Centro Cultural Agostinho Neto",
		Price:             10000,
		ImageURL:          "https://images.unsplash.com/photo-1545128485-c400e7702796?q=80&w=1000&auto=format&fit=crop",
		OrganizerID:       "org3",
		OrganizerWhatsapp: seedWhatsapp,
		Coordinates:       &Coordinates{Lat: -8.8350, Lng: 13.2340},
	},
	{
		ID:                "5",
		Title:             "Sabores de Angola: Festival Gastronómico",
		Description:       "Um tour pelos sabores das 18 províncias. Funge, Muamba e iguarias típicas em um só lugar.",
		Category:          "Gastronomia",
		Date:              "2025-07-12",
		Location:          "Ilha do Cabo",
		Price:             20000,
		ImageURL:          "https://images.unsplash.com/photo-1504674900247-0877df9cc836?q=80&w=1000&auto=format&fit=crop",
		OrganizerID:       "org2",
		OrganizerWhatsapp: seedWhatsapp,
		Highlighted:       true,
		Coordinates:       &Coordinates{Lat: -8.7890, Lng: 13.2210},
	},
	{
		ID:                "6",
		Title:             "Stand-up Comedy: Luanda a Rir",
		Description:       `Os maiores humoristas da nova geração em uma noite de gargalhadas garantidas sobre a nossa "banda".`,
		Category:          "Outros",
		Date:              "2025-04-02",
		Location:          "Centro de Conferências de Belas",
		Price:             7500,
		ImageURL:          "https://images.unsplash.com/photo-1585699324551-f6c309eedee6?q=80&w=1000&auto=format&fit=crop",
		OrganizerID:       "org4",
		OrganizerWhatsapp: seedWhatsapp,
		Coordinates:       &Coordinates{Lat: -8.9220, Lng: 13.1850},
	},
}
