package editor

import (
	"context"
	"fmt"
	"slices"

	"github.com/goliatone/go-sitecms/internal/media"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/goliatone/go-sitecms/internal/util"
)

// ImageField is the content key uploads write into.
const ImageField = "image_url"

// AddItem appends a default item to a list field and returns its id.
func (e *PageEditor) AddItem(sectionID, field string) (string, error) {
	var id string
	err := e.mutate(func(page *pages.Page) error {
		section, err := sectionRef(page, sectionID)
		if err != nil {
			return err
		}
		items := section.Content.Items(field)
		item, err := e.opts.registry.NewItem(e.formType(section.Type), field, len(items))
		if err != nil {
			return rejectField(err, "cannot add item")
		}
		setContent(section, field, sections.RenumberItems(append(items, item)))
		id = item.ID
		return nil
	})
	return id, err
}

func (e *PageEditor) RemoveItem(sectionID, field, itemID string) error {
	return e.mutate(func(page *pages.Page) error {
		section, items, idx, err := itemRef(page, sectionID, field, itemID)
		if err != nil {
			return err
		}
		items = append(items[:idx], items[idx+1:]...)
		setContent(section, field, renumberItems(items))
		return nil
	})
}

// MoveItem repositions an item within its list. Out of range indexes clamp.
func (e *PageEditor) MoveItem(sectionID, field, itemID string, newIndex int) error {
	return e.mutate(func(page *pages.Page) error {
		section, items, idx, err := itemRef(page, sectionID, field, itemID)
		if err != nil {
			return err
		}
		setContent(section, field, renumberItems(util.Move(items, idx, newIndex)))
		return nil
	})
}

// UpdateItemField replaces one sub-field of an item after validation.
func (e *PageEditor) UpdateItemField(sectionID, field, itemID, sub string, value any) error {
	return e.mutate(func(page *pages.Page) error {
		section, items, idx, err := itemRef(page, sectionID, field, itemID)
		if err != nil {
			return err
		}
		normalized, err := e.opts.registry.ValidateItemField(e.formType(section.Type), field, sub, value)
		if err != nil {
			return rejectField(err, "item field rejected")
		}
		items[idx].Fields[sub] = normalized
		setContent(section, field, items)
		return nil
	})
}

// SetItemText writes one language of a localized item sub-field.
func (e *PageEditor) SetItemText(sectionID, field, itemID, sub, lang, value string) error {
	return e.mutate(func(page *pages.Page) error {
		section, items, idx, err := itemRef(page, sectionID, field, itemID)
		if err != nil {
			return err
		}
		def, err := e.opts.registry.ItemField(e.formType(section.Type), field, sub)
		if err != nil {
			return rejectField(err, "item field rejected")
		}
		if !def.Kind.Localized() {
			return rejectField(fmt.Errorf("%w: %s.%s", ErrNotLocalized, field, sub), "item field rejected")
		}
		text, _ := items[idx].Text(sub)
		items[idx].Fields[sub] = text.With(lang, value)
		setContent(section, field, items)
		return nil
	})
}

// UploadTarget addresses the image_url of a section, or of one item of a
// section list when Field and ItemID are set.
type UploadTarget struct {
	SectionID string
	Field     string
	ItemID    string
}

func (t UploadTarget) String() string {
	if t.ItemID == "" {
		return t.SectionID
	}
	return fmt.Sprintf("%s/%s/%s", t.SectionID, t.Field, t.ItemID)
}

// BeginUpload registers a pending upload for target and returns its token.
func (e *PageEditor) BeginUpload(target UploadTarget) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.page == nil {
		return "", ErrNotLoaded
	}
	if err := e.checkTarget(e.page, target); err != nil {
		return "", err
	}
	token := sections.NewID()
	e.uploads[token] = target
	return token, nil
}

// CompleteUpload writes url into the target's image_url. Only that field
// changes; edits made while the upload ran are kept.
func (e *PageEditor) CompleteUpload(token, url string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	target, ok := e.uploads[token]
	if !ok {
		return ErrUploadNotFound
	}
	delete(e.uploads, token)

	err := e.mutateLocked(func(page *pages.Page) error {
		if err := e.checkTarget(page, target); err != nil {
			return fmt.Errorf("%w: %s", ErrUploadTargetGone, target)
		}
		section, _ := sectionRef(page, target.SectionID)
		if target.ItemID == "" {
			normalized, err := e.opts.registry.ValidateField(e.formType(section.Type), ImageField, url)
			if err != nil {
				return rejectField(err, "upload rejected")
			}
			setContent(section, ImageField, normalized)
			return nil
		}
		_, items, idx, _ := itemRef(page, target.SectionID, target.Field, target.ItemID)
		normalized, err := e.opts.registry.ValidateItemField(e.formType(section.Type), target.Field, ImageField, url)
		if err != nil {
			return rejectField(err, "upload rejected")
		}
		items[idx].Fields[ImageField] = normalized
		setContent(section, target.Field, items)
		return nil
	})
	if err != nil && !IsValidation(err) {
		e.notices.add(NoticeUploadFailed, err)
	}
	return err
}

// FailUpload drops a pending upload and posts a notice.
func (e *PageEditor) FailUpload(token string, cause error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	target, ok := e.uploads[token]
	if !ok {
		return
	}
	delete(e.uploads, token)
	if cause == nil {
		cause = fmt.Errorf("upload for %s failed", target)
	}
	e.notices.add(NoticeUploadFailed, cause)
	e.opts.logger.Warn("editor.page.upload_failed", "target", target.String(), "error", cause)
}

// UploadImage stores input through the configured uploader and writes the
// resulting URL into target.
func (e *PageEditor) UploadImage(ctx context.Context, target UploadTarget, input media.UploadInput) (*media.Asset, error) {
	if e.opts.uploader == nil {
		return nil, ErrUploaderRequired
	}
	token, err := e.BeginUpload(target)
	if err != nil {
		return nil, err
	}
	asset, err := e.opts.uploader.Upload(ctx, input)
	if err != nil {
		e.FailUpload(token, err)
		return nil, err
	}
	if err := e.CompleteUpload(token, asset.URL); err != nil {
		return asset, err
	}
	return asset, nil
}

func (e *PageEditor) checkTarget(page *pages.Page, target UploadTarget) error {
	section, err := sectionRef(page, target.SectionID)
	if err != nil {
		return err
	}
	desc := e.opts.registry.Resolve(section.Type)
	if target.ItemID == "" {
		if _, ok := desc.Field(ImageField); !ok {
			return fmt.Errorf("%w: %s", ErrNoImageField, desc.Type)
		}
		return nil
	}
	list, ok := desc.Field(target.Field)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrNoImageField, desc.Type, target.Field)
	}
	if _, ok := list.ItemField(ImageField); !ok {
		return fmt.Errorf("%w: %s.%s", ErrNoImageField, desc.Type, target.Field)
	}
	_, _, _, err = itemRef(page, target.SectionID, target.Field, target.ItemID)
	return err
}

// itemRef returns the section, a copy of its sorted list and the index of
// itemID in it.
func itemRef(page *pages.Page, sectionID, field, itemID string) (*sections.Section, []sections.Item, int, error) {
	section, err := sectionRef(page, sectionID)
	if err != nil {
		return nil, nil, -1, err
	}
	items := section.Content.Items(field)
	idx := slices.IndexFunc(items, func(item sections.Item) bool { return item.ID == itemID })
	if idx < 0 {
		return nil, nil, -1, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	for i := range items {
		if items[i].Fields == nil {
			items[i].Fields = map[string]any{}
		}
	}
	return section, items, idx, nil
}

func renumberItems(items []sections.Item) []sections.Item {
	for i := range items {
		items[i].Order = i
	}
	return items
}
