package form

import "posts-app/models"

type Mode int

const (
	// ModeLoading lasts until the initial list fetch resolves.
	ModeLoading Mode = iota
	ModeIdleCreate
	ModeIdleEdit
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeIdleCreate:
		return "create"
	case ModeIdleEdit:
		return "edit"
	default:
		return "unknown"
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

type State struct {
	Mode  Mode              `json:"mode"`
	Form  models.PostFields `json:"form"`
	Posts []models.Post     `json:"posts"`
	// EditingID is empty unless Mode is ModeIdleEdit.
	EditingID models.PostID `json:"editing_id,omitempty"`
	Busy      bool          `json:"busy"`
	Alert     string        `json:"alert,omitempty"`
}

func (s State) Editing() bool {
	return s.Mode == ModeIdleEdit
}
