package pages

import (
	"time"

	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Page is a slug-addressed, ordered collection of sections. Sections are
// stored inline so deleting the page removes them.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID              uuid.UUID          `bun:",pk,type:uuid" json:"id"`
	Slug            string             `bun:"slug,notnull,unique" json:"slug"`
	Title           i18n.Text          `bun:"title,type:jsonb" json:"title"`
	MetaDescription i18n.Text          `bun:"meta_description,type:jsonb" json:"meta_description"`
	Sections        []sections.Section `bun:"sections,type:jsonb" json:"sections"`
	Published       bool               `bun:"published,notnull,default:false" json:"published"`
	IsSystemPage    bool               `bun:"is_system_page,notnull,default:false" json:"is_system_page"`
	Version         int                `bun:"version,notnull,default:1" json:"version"`
	CreatedBy       uuid.UUID          `bun:"created_by,type:uuid,nullzero" json:"created_by,omitempty"`
	UpdatedBy       uuid.UUID          `bun:"updated_by,type:uuid,nullzero" json:"updated_by,omitempty"`
	CreatedAt       time.Time          `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time          `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// OrderedSections returns a copy sorted by order.
func (p *Page) OrderedSections() []sections.Section {
	if p == nil {
		return nil
	}
	return sections.Sorted(p.Sections)
}

// Section finds a section by id.
func (p *Page) Section(id string) (sections.Section, bool) {
	if p == nil {
		return sections.Section{}, false
	}
	for _, section := range p.Sections {
		if section.ID == id {
			return section.Clone(), true
		}
	}
	return sections.Section{}, false
}

func clonePage(p *Page) *Page {
	if p == nil {
		return nil
	}
	out := *p
	out.Title = p.Title.Clone()
	out.MetaDescription = p.MetaDescription.Clone()
	out.Sections = sections.CloneAll(p.Sections)
	return &out
}

// Clone deep copies the page.
func (p *Page) Clone() *Page {
	return clonePage(p)
}
