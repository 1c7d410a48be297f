package navigation

import "github.com/unikiala/unikiala-api/internal/model"

// History is a linear back/forward stack. Pos always indexes Screens, which
// is never empty.
type History struct {
	Screens []Screen
	Pos     int
}

// Initial returns the starting history for a role.
func Initial(role model.Role) History {
	if role == model.RoleOrganizer {
		return History{Screens: []Screen{OrganizerConsole{}}}
	}
	return History{Screens: []Screen{Home{}}}
}

func (h History) Current() Screen { return h.Screens[h.Pos] }

// NavigateTo drops the forward branch and appends target. Navigating to the
// current screen changes nothing.
func (h History) NavigateTo(target Screen) History {
	if h.Current().Kind() == target.Kind() {
		return h
	}
	next := make([]Screen, h.Pos+1, h.Pos+2)
	copy(next, h.Screens[:h.Pos+1])
	next = append(next, target)
	return History{Screens: next, Pos: len(next) - 1}
}

func (h History) GoBack() History {
	if h.CanGoBack() {
		h.Pos--
	}
	return h
}

func (h History) GoForward() History {
	if h.CanGoForward() {
		h.Pos++
	}
	return h
}

func (h History) CanGoBack() bool    { return h.Pos > 0 }
func (h History) CanGoForward() bool { return h.Pos < len(h.Screens)-1 }

// Snapshot is the client-facing view of a history.
type Snapshot struct {
	Current      View   `json:"current"`
	Screens      []Kind `json:"screens"`
	Pos          int    `json:"pos"`
	CanGoBack    bool   `json:"can_go_back"`
	CanGoForward bool   `json:"can_go_forward"`
}

func (h History) Snapshot() Snapshot {
	kinds := make([]Kind, len(h.Screens))
	for i, s := range h.Screens {
		kinds[i] = s.Kind()
	}
	return Snapshot{
		Current:      Dispatch(h.Current()),
		Screens:      kinds,
		Pos:          h.Pos,
		CanGoBack:    h.CanGoBack(),
		CanGoForward: h.CanGoForward(),
	}
}
