// Package navigation keeps a per-session back/forward history over a closed
// set of screens.
package navigation

import (
	"encoding/json"
	"fmt"

	"github.com/unikiala/unikiala-api/internal/model"
)

// Kind is the wire name of a screen.
type Kind string

const (
	KindHome             Kind = "HOME"
	KindOrganizerConsole Kind = "ORGANIZER_DASHBOARD"
	KindAdminConsole     Kind = "ADMIN_DASHBOARD"
	KindAbout            Kind = "ABOUT"
	KindTerms            Kind = "TERMS"
	KindPrivacy          Kind = "PRIVACY"
	KindContact          Kind = "CONTACT"
	KindProfile          Kind = "PROFILE"
)

// Screen is one of the types below and nothing else.
type Screen interface {
	Kind() Kind
	screen()
}

type (
	Home             struct{}
	OrganizerConsole struct{}
	AdminConsole     struct{}
	About            struct{}
	Terms            struct{}
	Privacy          struct{}
	Contact          struct{}
	Profile          struct{}
)

func (Home) Kind() Kind             { return KindHome }
func (OrganizerConsole) Kind() Kind { return KindOrganizerConsole }
func (AdminConsole) Kind() Kind     { return KindAdminConsole }
func (About) Kind() Kind            { return KindAbout }
func (Terms) Kind() Kind            { return KindTerms }
func (Privacy) Kind() Kind          { return KindPrivacy }
func (Contact) Kind() Kind          { return KindContact }
func (Profile) Kind() Kind          { return KindProfile }

func (Home) screen()             {}
func (OrganizerConsole) screen() {}
func (AdminConsole) screen()     {}
func (About) screen()            {}
func (Terms) screen()            {}
func (Privacy) screen()          {}
func (Contact) screen()          {}
func (Profile) screen()          {}

// Parse maps a wire name back to its screen.
func Parse(k Kind) (Screen, error) {
	switch k {
	case KindHome:
		return Home{}, nil
	case KindOrganizerConsole:
		return OrganizerConsole{}, nil
	case KindAdminConsole:
		return AdminConsole{}, nil
	case KindAbout:
		return About{}, nil
	case KindTerms:
		return Terms{}, nil
	case KindPrivacy:
		return Privacy{}, nil
	case KindContact:
		return Contact{}, nil
	case KindProfile:
		return Profile{}, nil
	}
	return nil, fmt.Errorf("navigation: unknown screen %q", k)
}

// View is what a client renders for a screen.
type View struct {
	Screen Kind         `json:"screen"`
	Title  string       `json:"title"`
	Path   string       `json:"path"`
	Roles  []model.Role `json:"roles,omitempty"`
}

// Dispatch resolves the view of a screen. Adding a screen type without a case
// here panics on first use.
func Dispatch(s Screen) View {
	switch s.(type) {
	case Home:
		return View{Screen: KindHome, Title: "Início", Path: "/"}
	case OrganizerConsole:
		return View{
			Screen: KindOrganizerConsole,
			Title:  "Painel do Organizador",
			Path:   "/organizer",
			Roles:  []model.Role{model.RoleOrganizer, model.RoleAdmin},
		}
	case AdminConsole:
		return View{
			Screen: KindAdminConsole,
			Title:  "Painel Administrativo",
			Path:   "/admin",
			Roles:  []model.Role{model.RoleAdmin},
		}
	case About:
		return View{Screen: KindAbout, Title: "Sobre Nós", Path: "/about"}
	case Terms:
		return View{Screen: KindTerms, Title: "Termos de Uso", Path: "/terms"}
	case Privacy:
		return View{Screen: KindPrivacy, Title: "Política de Privacidade", Path: "/privacy"}
	case Contact:
		return View{Screen: KindContact, Title: "Contacto", Path: "/contact"}
	case Profile:
		return View{
			Screen: KindProfile,
			Title:  "Meu Perfil",
			Path:   "/profile",
			Roles:  []model.Role{model.RoleUser, model.RoleOrganizer, model.RoleAdmin},
		}
	}
	panic(fmt.Sprintf("navigation: no view for %T", s))
}

// Allowed reports whether role may open s. An empty role is an anonymous visitor.
func Allowed(role model.Role, s Screen) bool {
	roles := Dispatch(s).Roles
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

type historyJSON struct {
	Screens []Kind `json:"screens"`
	Pos     int    `json:"pos"`
}

func (h History) MarshalJSON() ([]byte, error) {
	out := historyJSON{Screens: make([]Kind, len(h.Screens)), Pos: h.Pos}
	for i, s := range h.Screens {
		out.Screens[i] = s.Kind()
	}
	return json.Marshal(out)
}

func (h *History) UnmarshalJSON(b []byte) error {
	var in historyJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	screens := make([]Screen, 0, len(in.Screens))
	for _, k := range in.Screens {
		s, err := Parse(k)
		if err != nil {
			return err
		}
		screens = append(screens, s)
	}
	if len(screens) == 0 || in.Pos < 0 || in.Pos >= len(screens) {
		return fmt.Errorf("navigation: corrupt history (pos %d of %d)", in.Pos, len(screens))
	}
	h.Screens = screens
	h.Pos = in.Pos
	return nil
}
