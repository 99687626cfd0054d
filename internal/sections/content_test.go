package sections_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/sections"
)

func TestSectionJSONDefaultsVisible(t *testing.T) {
	var section sections.Section
	payload := `{"id":"s1","section_type":"faq","order":2,"content":{"headline":{"hr":"Pitanja","en":"Questions"},"items":[{"id":"q1","question":{"en":"Why?"}},{"id":"q2","order":0,"answer":{"en":"Because"}}]}}`
	if err := json.Unmarshal([]byte(payload), &section); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !section.Visible {
		t.Fatalf("expected visible default true")
	}
	headline, ok := section.Content.Text("headline")
	if !ok || headline.Langs()[0] != "hr" {
		t.Fatalf("expected ordered localized headline, got %#v", section.Content["headline"])
	}
	items := section.Content.Items("items")
	if len(items) != 2 {
		t.Fatalf("expected two items got %d", len(items))
	}
	if items[0].ID != "q1" && items[0].ID != "q2" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestSectionJSONExplicitHidden(t *testing.T) {
	var section sections.Section
	if err := json.Unmarshal([]byte(`{"id":"s1","section_type":"hero","visible":false}`), &section); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if section.Visible {
		t.Fatalf("expected hidden section")
	}
	if section.Content == nil {
		t.Fatalf("expected content map to be initialised")
	}
}

func TestItemJSONFlattensFields(t *testing.T) {
	item := sections.Item{ID: "i1", Order: 3, Fields: map[string]any{
		"title":    i18n.NewText("en", "Fast"),
		"icon":     "Zap",
		"order":    99,
		"image_id": "x",
	}}
	out, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	encoded := string(out)
	if !strings.HasPrefix(encoded, `{"id":"i1","order":3,`) {
		t.Fatalf("unexpected prefix %s", encoded)
	}
	if strings.Count(encoded, `"order"`) != 1 {
		t.Fatalf("expected order written once, got %s", encoded)
	}
}

func TestContentDecodeIgnoresGarbage(t *testing.T) {
	var content sections.Content
	if err := json.Unmarshal([]byte(`{"headline":null,"columns":3,"ratio":1.5,"flag":true,"items":[1,"x",{"id":"ok"}],"meta":{"en":1}}`), &content); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := content["headline"]; ok {
		t.Fatalf("expected null value to be dropped")
	}
	if content["columns"] != 3 {
		t.Fatalf("expected integer columns, got %#v", content["columns"])
	}
	if items := content.Items("items"); len(items) != 1 || items[0].ID != "ok" {
		t.Fatalf("expected only object items to survive, got %+v", items)
	}
	if _, ok := content["meta"].(map[string]any); !ok {
		t.Fatalf("expected non-text object kept generic, got %#v", content["meta"])
	}
}

func TestNormalizeRenumbersDensely(t *testing.T) {
	list := []sections.Section{
		{ID: "c", Order: 9},
		{ID: "a", Order: 1},
		{Order: 1},
	}
	out := sections.Normalize(list)
	for i, section := range out {
		if section.Order != i {
			t.Fatalf("expected order %d got %d", i, section.Order)
		}
		if section.ID == "" {
			t.Fatalf("expected id to be assigned")
		}
	}
	if out[0].ID != "a" || out[2].ID != "c" {
		t.Fatalf("expected stable sort, got %v %v %v", out[0].ID, out[1].ID, out[2].ID)
	}
	if list[0].Order != 9 {
		t.Fatalf("expected input untouched")
	}
}

func TestContentItemsWithoutOrderKeepArrayPosition(t *testing.T) {
	payload := `{"items":[` +
		`{"id":"a","question":{"en":"First"}},` +
		`{"id":"b","answer":{"en":"Second"}},` +
		`{"id":"c","question":{"en":"order"},"note":"\"order\""}` +
		`]}`
	var content sections.Content
	if err := json.Unmarshal([]byte(payload), &content); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	items := content.Items("items")
	var ids strings.Builder
	for idx, item := range items {
		ids.WriteString(item.ID)
		if item.Order != idx {
			t.Fatalf("expected item %s at order %d, got %d", item.ID, idx, item.Order)
		}
	}
	if ids.String() != "abc" {
		t.Fatalf("expected array order abc, got %s", ids.String())
	}
}

func TestContentItemsMalformedOrderFallsBackToPosition(t *testing.T) {
	payload := `{"items":[{"id":"a","order":"first"},{"id":"b","order":0}]}`
	var content sections.Content
	if err := json.Unmarshal([]byte(payload), &content); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	items := content.Items("items")
	if len(items) != 2 || items[0].ID != "a" || items[1].ID != "b" {
		t.Fatalf("expected a then b, got %+v", items)
	}
}
