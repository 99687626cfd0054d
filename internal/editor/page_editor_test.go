package editor_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-sitecms/internal/editor"
	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/media"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/render"
	"github.com/goliatone/go-sitecms/internal/sections"
)

// recordingBackend wraps the in-process backend and can fail or hook saves.
type recordingBackend struct {
	editor.ServiceBackend
	saves    []pages.UpdatePageRequest
	loadErr  error
	saveErr  error
	onSave   func()
	lastSlug string
}

func (b *recordingBackend) LoadPage(ctx context.Context, slug string) (*pages.Page, error) {
	b.lastSlug = slug
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return b.ServiceBackend.LoadPage(ctx, slug)
}

func (b *recordingBackend) SavePage(ctx context.Context, req pages.UpdatePageRequest) (*pages.Page, error) {
	b.saves = append(b.saves, req)
	if b.onSave != nil {
		b.onSave()
	}
	if b.saveErr != nil {
		return nil, b.saveErr
	}
	return b.ServiceBackend.SavePage(ctx, req)
}

func newPageFixture(t *testing.T, opts ...editor.Option) (*editor.PageEditor, *recordingBackend, pages.Service) {
	t.Helper()
	svc, err := pages.NewService(pages.NewMemoryPageRepository())
	if err != nil {
		t.Fatalf("new page service: %v", err)
	}
	if _, err := svc.Create(context.Background(), pages.CreatePageRequest{
		Slug:  "about",
		Title: i18n.NewText("en", "About"),
	}); err != nil {
		t.Fatalf("create page: %v", err)
	}
	backend := &recordingBackend{ServiceBackend: editor.ServiceBackend{Pages: svc}}
	ed, err := editor.NewPageEditor(backend, opts...)
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	return ed, backend, svc
}

func loaded(t *testing.T, opts ...editor.Option) (*editor.PageEditor, *recordingBackend, pages.Service) {
	t.Helper()
	ed, backend, svc := newPageFixture(t, opts...)
	if err := ed.Load(context.Background(), "about"); err != nil {
		t.Fatalf("load: %v", err)
	}
	return ed, backend, svc
}

func orders(list []sections.Section) []int {
	out := make([]int, len(list))
	for i, section := range list {
		out[i] = section.Order
	}
	return out
}

func TestAboutPageEndToEnd(t *testing.T) {
	ctx := context.Background()
	ed, backend, _ := loaded(t)
	if ed.Status() != editor.StatusReady {
		t.Fatalf("expected ready after load, got %s", ed.Status())
	}

	id, err := ed.AddSection("hero")
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	page := ed.Page()
	if len(page.Sections) != 1 || page.Sections[0].Order != 0 || !page.Sections[0].Visible {
		t.Fatalf("unexpected sections %+v", page.Sections)
	}
	defaults, _ := sections.Default().DefaultContent("hero")
	for field := range defaults {
		if _, ok := page.Sections[0].Content[field]; !ok {
			t.Fatalf("expected default field %s in new hero", field)
		}
	}

	if err := ed.UpdateSectionContent(id, "headline", i18n.NewText("en", "Welcome")); err != nil {
		t.Fatalf("update headline: %v", err)
	}
	saved, err := ed.Save(ctx)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if len(backend.saves) != 1 {
		t.Fatalf("expected one save request, got %d", len(backend.saves))
	}
	sent := *backend.saves[0].Sections
	if len(sent) != 1 || sent[0].Order != 0 || !sent[0].Visible {
		t.Fatalf("unexpected sent sections %+v", sent)
	}
	if headline, _ := sent[0].Content.Text("headline"); headline.String() != "Welcome" {
		t.Fatalf("expected headline Welcome, got %q", headline.String())
	}
	if backend.saves[0].ExpectedVersion == nil || *backend.saves[0].ExpectedVersion != 1 {
		t.Fatalf("expected loaded version to be sent")
	}
	if ed.Dirty() || ed.Page().Version != 2 {
		t.Fatalf("expected clean editor at version 2, got dirty=%v version=%d", ed.Dirty(), ed.Page().Version)
	}

	out := render.Render(saved, "en")
	if len(out) != 1 {
		t.Fatalf("expected one rendered section, got %d", len(out))
	}
	hero, ok := out[0].View.(render.HeroView)
	if !ok {
		t.Fatalf("expected hero view, got %T", out[0].View)
	}
	if hero.Headline == nil || hero.Headline.Text != "Welcome" || hero.Subheadline != "" {
		t.Fatalf("unexpected hero view %+v", hero)
	}
}

func TestSectionOrderStaysDense(t *testing.T) {
	ed, _, _ := loaded(t)
	a, _ := ed.AddSection("hero")
	b, _ := ed.AddSection("faq")
	c, _ := ed.AddSection("cta")

	if err := ed.ReorderSection(c, -4); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	page := ed.Page()
	if page.Sections[0].ID != c || page.Sections[1].ID != a || page.Sections[2].ID != b {
		t.Fatalf("unexpected order after reorder")
	}

	if err := ed.DragSection(c, b); err != nil {
		t.Fatalf("drag: %v", err)
	}
	page = ed.Page()
	if page.Sections[2].ID != c {
		t.Fatalf("expected dragged section last")
	}

	if err := ed.RemoveSection(a); err != nil {
		t.Fatalf("remove: %v", err)
	}
	page = ed.Page()
	if got := orders(page.Sections); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("expected dense orders, got %v", got)
	}
	if err := ed.RemoveSection(a); !errors.Is(err, editor.ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestRejectedFieldWriteKeepsPriorValue(t *testing.T) {
	ed, _, _ := loaded(t)
	id, _ := ed.AddSection("hero")
	if err := ed.UpdateSectionContent(id, "background_color", "light"); err != nil {
		t.Fatalf("valid enum: %v", err)
	}

	err := ed.UpdateSectionContent(id, "background_color", "neon")
	if !editor.IsValidation(err) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if err := ed.UpdateSectionContent(id, "not_a_field", "x"); !errors.Is(err, sections.ErrUnknownField) {
		t.Fatalf("expected unknown field, got %v", err)
	}
	section := ed.Page().Sections[0]
	if section.Content.String("background_color") != "light" {
		t.Fatalf("expected prior value kept, got %q", section.Content.String("background_color"))
	}
	notices := ed.Notices()
	if len(notices) != 2 || notices[0].Kind != editor.NoticeValidation {
		t.Fatalf("expected validation notices, got %+v", notices)
	}
	if !ed.Dismiss(notices[0].ID) || len(ed.Notices()) != 1 {
		t.Fatalf("expected notice dismissed")
	}
}

func TestChangeSectionTypeCarriesSharedFields(t *testing.T) {
	ed, _, _ := loaded(t)
	id, _ := ed.AddSection("hero")
	_ = ed.SetSectionText(id, "headline", "en", "Hello")
	_ = ed.SetSectionText(id, "button_text", "en", "Go")

	if err := ed.ChangeSectionType(id, "content"); err != nil {
		t.Fatalf("change type: %v", err)
	}
	section := ed.Page().Sections[0]
	if section.Type != "content" {
		t.Fatalf("expected content type, got %s", section.Type)
	}
	if headline, _ := section.Content.Text("headline"); headline.String() != "Hello" {
		t.Fatalf("expected headline carried, got %q", headline.String())
	}
	if _, ok := section.Content["button_text"]; ok {
		t.Fatalf("expected button_text dropped")
	}
	body, _ := section.Content.Text("body")
	if !body.Equal(i18n.EmptyText()) {
		t.Fatalf("expected empty default body, got %v", body.Map())
	}
	form, err := ed.Form(id)
	if err != nil || form.Type != "content" {
		t.Fatalf("expected content form, got %s %v", form.Type, err)
	}

	if err := ed.ChangeSectionType(id, "pricing_table"); !errors.Is(err, sections.ErrUnknownSectionType) {
		t.Fatalf("expected unknown type rejected, got %v", err)
	}
}

func TestItemOperations(t *testing.T) {
	ed, _, _ := loaded(t)
	id, _ := ed.AddSection("faq")
	first, err := ed.AddItem(id, "items")
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	second, _ := ed.AddItem(id, "items")
	third, _ := ed.AddItem(id, "items")

	if err := ed.SetItemText(id, "items", second, "question", "hr", "Pitanje?"); err != nil {
		t.Fatalf("set item text: %v", err)
	}
	if err := ed.MoveItem(id, "items", third, 0); err != nil {
		t.Fatalf("move item: %v", err)
	}
	if err := ed.RemoveItem(id, "items", first); err != nil {
		t.Fatalf("remove item: %v", err)
	}

	items := ed.Page().Sections[0].Content.Items("items")
	if len(items) != 2 || items[0].ID != third || items[1].ID != second {
		t.Fatalf("unexpected items %+v", items)
	}
	if items[0].Order != 0 || items[1].Order != 1 {
		t.Fatalf("expected dense item orders")
	}
	if question, _ := items[1].Text("question"); question.String() != "Pitanje?" {
		t.Fatalf("expected question kept, got %q", question.String())
	}

	if err := ed.UpdateItemField(id, "items", second, "answer", 42); !editor.IsValidation(err) {
		t.Fatalf("expected item validation failure, got %v", err)
	}
	if err := ed.RemoveItem(id, "items", "missing"); !errors.Is(err, editor.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestMetadataEdits(t *testing.T) {
	ed, backend, _ := loaded(t)
	_ = ed.SetTitle("hr", "O nama")
	_ = ed.SetMetaDescription("en", "Who we are")
	_ = ed.SetPublished(true)

	if _, err := ed.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	req := backend.saves[0]
	if req.Title.String() != "About" {
		t.Fatalf("expected english title kept, got %q", req.Title.String())
	}
	if value, _ := req.Title.Get("hr"); value != "O nama" {
		t.Fatalf("expected croatian title, got %q", value)
	}
	if !*req.Published || req.MetaDescription.String() != "Who we are" {
		t.Fatalf("unexpected metadata %+v", req)
	}
}

func TestLoadFailuresLeaveEditorReady(t *testing.T) {
	ctx := context.Background()
	ed, backend, _ := newPageFixture(t)

	err := ed.Load(ctx, "missing")
	if !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if ed.Status() != editor.StatusReady || ed.Page() != nil {
		t.Fatalf("expected ready editor without page")
	}
	if notices := ed.Notices(); len(notices) != 1 || notices[0].Kind != editor.NoticeNotFound {
		t.Fatalf("expected not_found notice, got %+v", notices)
	}

	backend.loadErr = errors.New("connection refused")
	err = ed.Load(ctx, "about")
	if !errors.Is(err, editor.ErrLoadFailed) {
		t.Fatalf("expected ErrLoadFailed, got %v", err)
	}
	if notices := ed.Notices(); notices[len(notices)-1].Kind != editor.NoticeLoadFailed {
		t.Fatalf("expected load_failed notice, got %+v", notices)
	}
	if _, err := ed.AddSection("hero"); !errors.Is(err, editor.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestFailedSaveKeepsEdits(t *testing.T) {
	ctx := context.Background()
	ed, backend, _ := loaded(t)
	_, _ = ed.AddSection("cta")

	backend.saveErr = errors.New("gateway timeout")
	if _, err := ed.Save(ctx); !errors.Is(err, editor.ErrSaveFailed) {
		t.Fatalf("expected ErrSaveFailed, got %v", err)
	}
	if ed.Status() != editor.StatusReady || !ed.Dirty() || len(ed.Page().Sections) != 1 {
		t.Fatalf("expected edits kept after failed save")
	}
	if ed.Err() == nil {
		t.Fatalf("expected error recorded")
	}

	backend.saveErr = nil
	if _, err := ed.Save(ctx); err != nil {
		t.Fatalf("retry save: %v", err)
	}
	if ed.Dirty() || ed.Err() != nil {
		t.Fatalf("expected clean editor after retry")
	}
}

func TestSaveConflictPostsNotice(t *testing.T) {
	ctx := context.Background()
	ed, _, svc := loaded(t)
	page := ed.Page()

	published := true
	if _, err := svc.Update(ctx, pages.UpdatePageRequest{ID: page.ID, Published: &published}); err != nil {
		t.Fatalf("concurrent update: %v", err)
	}

	_ = ed.SetTitle("en", "About us")
	_, err := ed.Save(ctx)
	if !errors.Is(err, pages.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
	notices := ed.Notices()
	if notices[len(notices)-1].Kind != editor.NoticeConflict {
		t.Fatalf("expected conflict notice, got %+v", notices)
	}
}

func TestLastWriteWinsSkipsVersion(t *testing.T) {
	ctx := context.Background()
	ed, backend, svc := loaded(t, editor.WithConcurrency(editor.ConcurrencyLastWriteWins))
	page := ed.Page()
	published := true
	_, _ = svc.Update(ctx, pages.UpdatePageRequest{ID: page.ID, Published: &published})

	_ = ed.SetTitle("en", "About us")
	if _, err := ed.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if backend.saves[0].ExpectedVersion != nil {
		t.Fatalf("expected no version sent")
	}
}

func TestEditsDuringSaveStayDirty(t *testing.T) {
	ctx := context.Background()
	ed, backend, _ := loaded(t)
	_, _ = ed.AddSection("hero")

	var nested error
	backend.onSave = func() {
		backend.onSave = nil
		if ed.Status() != editor.StatusSaving {
			t.Errorf("expected saving status during request, got %s", ed.Status())
		}
		_, nested = ed.Save(ctx)
		_ = ed.SetTitle("de", "Über uns")
	}
	saved, err := ed.Save(ctx)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !errors.Is(nested, editor.ErrSaveInProgress) {
		t.Fatalf("expected ErrSaveInProgress for overlapping save, got %v", nested)
	}

	page := ed.Page()
	if !ed.Dirty() {
		t.Fatalf("expected edit made during save to stay dirty")
	}
	if page.Version != saved.Version {
		t.Fatalf("expected server version adopted, got %d want %d", page.Version, saved.Version)
	}
	if value, _ := page.Title.Get("de"); value != "Über uns" {
		t.Fatalf("expected in-flight edit kept, got %q", value)
	}
	if _, err := ed.Save(ctx); err != nil {
		t.Fatalf("follow-up save: %v", err)
	}
}

type stubUploader struct {
	url    string
	err    error
	during func()
}

func (u *stubUploader) Upload(_ context.Context, input media.UploadInput) (*media.Asset, error) {
	if u.during != nil {
		u.during()
	}
	if u.err != nil {
		return nil, u.err
	}
	return &media.Asset{Name: input.Filename, URL: u.url}, nil
}

func TestUploadMergesIntoCurrentState(t *testing.T) {
	uploader := &stubUploader{url: "/api/media/abc.png"}
	ed, _, _ := loaded(t, editor.WithUploader(uploader))
	id, _ := ed.AddSection("benefits")
	itemID, _ := ed.AddItem(id, "items")

	uploader.during = func() {
		_ = ed.SetItemText(id, "items", itemID, "title", "en", "Fast sync")
		_ = ed.SetSectionText(id, "headline", "en", "Why us")
	}
	asset, err := ed.UploadImage(context.Background(), editor.UploadTarget{SectionID: id, Field: "items", ItemID: itemID}, media.UploadInput{
		Filename:    "sync.png",
		ContentType: "image/png",
		Reader:      strings.NewReader("png"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if asset.URL != "/api/media/abc.png" {
		t.Fatalf("unexpected asset %+v", asset)
	}

	section := ed.Page().Sections[0]
	item := section.Content.Items("items")[0]
	if item.String("image_url") != "/api/media/abc.png" {
		t.Fatalf("expected image url merged, got %q", item.String("image_url"))
	}
	if title, _ := item.Text("title"); title.String() != "Fast sync" {
		t.Fatalf("expected concurrent item edit kept, got %q", title.String())
	}
	if headline, _ := section.Content.Text("headline"); headline.String() != "Why us" {
		t.Fatalf("expected concurrent section edit kept, got %q", headline.String())
	}
}

func TestUploadForRemovedTarget(t *testing.T) {
	ed, _, _ := loaded(t)
	id, _ := ed.AddSection("hero")

	token, err := ed.BeginUpload(editor.UploadTarget{SectionID: id})
	if err != nil {
		t.Fatalf("begin upload: %v", err)
	}
	_ = ed.RemoveSection(id)
	if err := ed.CompleteUpload(token, "/api/media/x.png"); !errors.Is(err, editor.ErrUploadTargetGone) {
		t.Fatalf("expected ErrUploadTargetGone, got %v", err)
	}
	if err := ed.CompleteUpload(token, "/api/media/x.png"); !errors.Is(err, editor.ErrUploadNotFound) {
		t.Fatalf("expected token consumed, got %v", err)
	}

	faq, _ := ed.AddSection("faq")
	if _, err := ed.BeginUpload(editor.UploadTarget{SectionID: faq}); !errors.Is(err, editor.ErrNoImageField) {
		t.Fatalf("expected ErrNoImageField, got %v", err)
	}
}

func TestFailedUploadPostsNotice(t *testing.T) {
	uploader := &stubUploader{err: media.ErrNotImage}
	ed, _, _ := loaded(t, editor.WithUploader(uploader))
	id, _ := ed.AddSection("hero")

	_, err := ed.UploadImage(context.Background(), editor.UploadTarget{SectionID: id}, media.UploadInput{Filename: "a.txt", ContentType: "text/plain"})
	if !errors.Is(err, media.ErrNotImage) {
		t.Fatalf("expected uploader error, got %v", err)
	}
	notices := ed.Notices()
	if notices[len(notices)-1].Kind != editor.NoticeUploadFailed {
		t.Fatalf("expected upload_failed notice, got %+v", notices)
	}
	if url := ed.Page().Sections[0].Content.String("image_url"); url != "" {
		t.Fatalf("expected image untouched, got %q", url)
	}
}

func TestViewStateTracksSections(t *testing.T) {
	ed, _, _ := loaded(t, editor.WithLanguage("hr"))
	id, _ := ed.AddSection("hero")
	view := ed.View()
	if view.Language != "hr" || view.ActiveSectionID != id || !view.Expanded[id] {
		t.Fatalf("unexpected view %+v", view)
	}
	_ = ed.RemoveSection(id)
	if ed.View().ActiveSectionID != "" {
		t.Fatalf("expected removed section forgotten")
	}
}

func TestNewPageEditorRequiresBackend(t *testing.T) {
	if _, err := editor.NewPageEditor(nil); !errors.Is(err, editor.ErrBackendRequired) {
		t.Fatalf("expected ErrBackendRequired, got %v", err)
	}
}
