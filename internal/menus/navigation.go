package menus

import (
	"context"
	"sort"
	"strings"

	"github.com/goliatone/go-sitecms/internal/i18n"
)

const (
	MenuHeader = "header"
	MenuFooter = "footer"
	MenuMobile = "mobile"
)

// DefaultNames are the menus a site carries unless configured otherwise.
var DefaultNames = []string{MenuHeader, MenuFooter, MenuMobile}

// NavItem is a resolved navigation entry. Dropdowns carry no URL; a
// dropdown whose children are all hidden has an empty Children list.
type NavItem struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	URL      string    `json:"url,omitempty"`
	Target   string    `json:"target,omitempty"`
	Dropdown bool      `json:"dropdown,omitempty"`
	Children []NavItem `json:"children,omitempty"`
}

func (n NavItem) IsDropdown() bool {
	return n.Dropdown || len(n.Children) > 0
}

// Navigation is an assembled menu in display order.
type Navigation struct {
	Name     string    `json:"name"`
	Items    []NavItem `json:"items"`
	Fallback bool      `json:"fallback,omitempty"`
}

// Links returns the plain top-level links.
func (n Navigation) Links() []NavItem {
	out := []NavItem{}
	for _, item := range n.Items {
		if !item.IsDropdown() {
			out = append(out, item)
		}
	}
	return out
}

// Dropdowns returns the top-level entries with children.
func (n Navigation) Dropdowns() []NavItem {
	out := []NavItem{}
	for _, item := range n.Items {
		if item.IsDropdown() {
			out = append(out, item)
		}
	}
	return out
}

// Assemble resolves menu for lang. Hidden items and hidden children are
// dropped. Any item with stored children is a dropdown, even when none of
// them is visible. When nothing visible remains, fallback is returned.
func Assemble(ctx context.Context, menu *Menu, lang string, fallback Navigation, resolver URLResolver) Navigation {
	if menu == nil {
		return fallback
	}
	if resolver == nil {
		resolver = PathResolver{}
	}
	nav := Navigation{Name: menu.Name, Items: []NavItem{}}
	for _, item := range sortedItems(menu.Items) {
		if !item.Visible {
			continue
		}
		if len(item.Children) == 0 {
			nav.Items = append(nav.Items, link(ctx, menu.Name, item, lang, resolver))
			continue
		}
		entry := NavItem{
			ID:       item.ID,
			Label:    i18n.ResolveString(item.Label, lang),
			Dropdown: true,
		}
		for _, child := range sortedItems(item.Children) {
			if child.Visible {
				entry.Children = append(entry.Children, link(ctx, menu.Name, child, lang, resolver))
			}
		}
		nav.Items = append(nav.Items, entry)
	}
	if len(nav.Items) == 0 {
		return fallback
	}
	return nav
}

func link(ctx context.Context, menu string, item MenuItem, lang string, resolver URLResolver) NavItem {
	url := strings.TrimSpace(item.URL)
	if url == "" && item.PageSlug != "" {
		resolved, err := resolver.Resolve(ctx, ResolveRequest{Menu: menu, PageSlug: item.PageSlug, Locale: lang})
		if err != nil || resolved == "" {
			resolved, _ = PathResolver{}.Resolve(ctx, ResolveRequest{PageSlug: item.PageSlug})
		}
		url = resolved
	}
	target := item.Target
	if target == "" {
		target = TargetSelf
	}
	return NavItem{
		ID:     item.ID,
		Label:  i18n.ResolveString(item.Label, lang),
		URL:    url,
		Target: target,
	}
}

func sortedItems(items []MenuItem) []MenuItem {
	out := cloneItems(items)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Order < out[b].Order })
	return out
}

// HeaderFallback is the built-in header: a Features dropdown of the four
// feature pages, then pricing, blog, about and contact.
func HeaderFallback(catalog *i18n.Catalog, lang string) Navigation {
	t := translator(catalog, lang)
	return Navigation{
		Name:     MenuHeader,
		Fallback: true,
		Items: []NavItem{
			{
				ID:    "fallback-features",
				Label: t("nav.features"),
				Children: []NavItem{
					fallbackLink("channel-manager", t("features.channelManager"), "/features/channel-manager"),
					fallbackLink("evisitor", t("features.evisitor"), "/features/evisitor"),
					fallbackLink("website", t("features.website"), "/features/website"),
					fallbackLink("smart-apartment", t("features.smartApartment"), "/features/smart-apartment"),
				},
			},
			fallbackLink("pricing", t("nav.pricing"), "/pricing"),
			fallbackLink("blog", t("nav.blog"), "/blog"),
			fallbackLink("about", t("nav.aboutUs"), "/about"),
			fallbackLink("contact", t("nav.contact"), "/contact"),
		},
	}
}

// FooterFallback is the built-in footer: terms and privacy.
func FooterFallback(catalog *i18n.Catalog, lang string) Navigation {
	t := translator(catalog, lang)
	return Navigation{
		Name:     MenuFooter,
		Fallback: true,
		Items: []NavItem{
			fallbackLink("terms", t("footer.termsAndConditions"), "/terms"),
			fallbackLink("privacy", t("footer.privacyPolicy"), "/privacy"),
		},
	}
}

// FallbackFor returns the built-in navigation for name. Menus without one
// fall back to an empty navigation.
func FallbackFor(name string, catalog *i18n.Catalog, lang string) Navigation {
	switch name {
	case MenuHeader, MenuMobile:
		nav := HeaderFallback(catalog, lang)
		nav.Name = name
		return nav
	case MenuFooter:
		return FooterFallback(catalog, lang)
	}
	return Navigation{Name: name, Items: []NavItem{}, Fallback: true}
}

func fallbackLink(key, label, url string) NavItem {
	return NavItem{ID: "fallback-" + key, Label: label, URL: url, Target: TargetSelf}
}

func translator(catalog *i18n.Catalog, lang string) func(string) string {
	return func(key string) string {
		if catalog == nil {
			return key
		}
		return catalog.Translate(lang, key)
	}
}
