package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestPageUUIDNormalizesSlug(t *testing.T) {
	if PageUUID("About") != PageUUID(" about ") {
		t.Fatalf("expected normalized slugs to match")
	}
	if PageUUID("about") == PageUUID("pricing") {
		t.Fatalf("expected different slugs to yield different ids")
	}
}

func TestIDsAreScopedByKind(t *testing.T) {
	if PageUUID("footer") == MenuUUID("footer") {
		t.Fatalf("expected page and menu ids to differ for the same key")
	}
	if SectionID("home", 0, "hero") == SectionID("about", 0, "hero") {
		t.Fatalf("expected section ids to differ across pages")
	}
	if SectionID("home", 0, "hero") != SectionID("HOME", 0, "hero") {
		t.Fatalf("expected deterministic section id")
	}
	if MenuItemID("header", "/pricing") == MenuItemID("footer", "/pricing") {
		t.Fatalf("expected menu item ids scoped by menu")
	}
}

func TestBlankKeyYieldsNil(t *testing.T) {
	if got := UUID("   "); got != uuid.Nil {
		t.Fatalf("expected nil uuid got %s", got)
	}
}

func TestActorUUIDIgnoresSurroundingSpace(t *testing.T) {
	if ActorUUID(" admin ") != ActorUUID("admin") {
		t.Fatalf("expected trimmed subject to map to the same actor")
	}
	if ActorUUID("admin") == ActorUUID("editor") {
		t.Fatalf("expected distinct actors")
	}
}
