package order

import (
	"errors"

	"github.com/el-modasser/elkababgy/internal/i18n"
)

var (
	ErrUnknownBranch = errors.New("unknown branch")
	ErrNoBranches    = errors.New("no branches configured")
)

// Branch is an outlet that receives orders on its own WhatsApp number.
type Branch struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	NameLocalized i18n.Localized `json:"name_localized,omitempty"`
	WhatsApp      string         `json:"whatsapp"`
	DirectionsURL string         `json:"directions_url,omitempty"`
}

func (b Branch) DisplayName(lang i18n.Language) string {
	return b.NameLocalized.Get(lang, b.Name)
}

// Directory resolves branch ids, falling back to a default branch.
type Directory struct {
	branches  []Branch
	defaultID string
}

func NewDirectory(branches []Branch, defaultID string) (*Directory, error) {
	if len(branches) == 0 {
		return nil, ErrNoBranches
	}
	d := &Directory{branches: branches, defaultID: defaultID}
	if _, ok := d.find(defaultID); !ok {
		d.defaultID = branches[0].ID
	}
	return d, nil
}

// Default is the branch used when a request names none.
func (d *Directory) Default() Branch {
	b, _ := d.find(d.defaultID)
	return b
}

func (d *Directory) All() []Branch {
	out := make([]Branch, len(d.branches))
	copy(out, d.branches)
	return out
}

// Get returns the branch with id; an empty id selects the default branch.
func (d *Directory) Get(id string) (Branch, error) {
	if id == "" {
		id = d.defaultID
	}
	b, ok := d.find(id)
	if !ok {
		return Branch{}, ErrUnknownBranch
	}
	return b, nil
}

func (d *Directory) find(id string) (Branch, bool) {
	for _, b := range d.branches {
		if b.ID == id {
			return b, true
		}
	}
	return Branch{}, false
}
