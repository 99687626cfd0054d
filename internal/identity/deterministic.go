// Package identity derives stable identifiers for seeded and imported
// records, so re-running a seed or an import addresses the same rows.
package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "sitecms"

// UUID hashes key with go-hashid. Blank keys yield uuid.Nil.
func UUID(key string) uuid.UUID {
	key = strings.TrimSpace(key)
	if key == "" {
		return uuid.Nil
	}
	id, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || id == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
	}
	return id
}

// scoped hashes the key "sitecms:<kind>:<parts...>".
func scoped(kind string, parts ...string) uuid.UUID {
	return UUID(namespace + ":" + kind + ":" + strings.Join(parts, ":"))
}

func name(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func PageUUID(slug string) uuid.UUID {
	return scoped("page", name(slug))
}

// SectionID identifies the index-th section of type sectionType on a page.
func SectionID(pageSlug string, index int, sectionType string) string {
	return scoped("section", name(pageSlug), strconv.Itoa(index), strings.TrimSpace(sectionType)).String()
}

func MenuUUID(menuName string) uuid.UUID {
	return scoped("menu", name(menuName))
}

// MenuItemID identifies an item by its menu and a key unique within it,
// usually the item URL.
func MenuItemID(menuName, key string) string {
	return scoped("menu_item", name(menuName), strings.TrimSpace(key)).String()
}

// ActorUUID maps a session subject onto the actor recorded on writes.
func ActorUUID(subject string) uuid.UUID {
	return UUID("actor:" + strings.TrimSpace(subject))
}
