// Package openapi describes the REST API, with one component schema per
// registered section type.
package openapi

import (
	"encoding/json"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-sitecms/internal/sections"
)

const (
	Version = "3.0.3"

	sectionSchemaPrefix = "Section."
)

// Document represents a minimal OpenAPI document.
type Document struct {
	OpenAPI    string                          `json:"openapi"`
	Info       Info                            `json:"info"`
	Paths      map[string]map[string]Operation `json:"paths"`
	Components Components                      `json:"components"`
}

type Info struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

type Components struct {
	Schemas map[string]any `json:"schemas,omitempty"`
}

// Operation is one method on a path.
type Operation struct {
	Summary     string              `json:"summary"`
	Tags        []string            `json:"tags,omitempty"`
	Security    []map[string][]any  `json:"security,omitempty"`
	RequestBody *RequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses"`
}

type RequestBody struct {
	Required bool                 `json:"required"`
	Content  map[string]MediaType `json:"content"`
}

type Response struct {
	Description string               `json:"description"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

type MediaType struct {
	Schema map[string]any `json:"schema,omitempty"`
}

func NewDocument(title, version string) *Document {
	return &Document{
		OpenAPI:    Version,
		Info:       Info{Title: title, Version: version},
		Paths:      map[string]map[string]Operation{},
		Components: Components{Schemas: map[string]any{}},
	}
}

// AddSchema registers a component schema.
func (d *Document) AddSchema(name string, schema map[string]any) {
	if d == nil || name == "" || schema == nil {
		return
	}
	if d.Components.Schemas == nil {
		d.Components.Schemas = map[string]any{}
	}
	d.Components.Schemas[name] = schema
}

// AddOperation sets method on route. Methods are stored lower case.
func (d *Document) AddOperation(route, method string, op Operation) {
	if d == nil || route == "" || method == "" {
		return
	}
	if d.Paths == nil {
		d.Paths = map[string]map[string]Operation{}
	}
	if d.Paths[route] == nil {
		d.Paths[route] = map[string]Operation{}
	}
	if op.Responses == nil {
		op.Responses = map[string]Response{}
	}
	d.Paths[route][strings.ToLower(method)] = op
}

// SectionSchemaName is the component name of a section type.
func SectionSchemaName(sectionType string) string {
	return sectionSchemaPrefix + sectionType
}

func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func jsonBody(schema map[string]any) map[string]MediaType {
	return map[string]MediaType{"application/json": {Schema: schema}}
}

// Build describes the API mounted at basePath. Every section type of
// registry becomes a component, and "Section" is their discriminated union.
func Build(title, version, basePath string, registry *sections.Registry) (*Document, error) {
	doc := NewDocument(title, version)
	if registry == nil {
		registry = sections.Default()
	}

	types := append([]string(nil), registry.Types()...)
	sort.Strings(types)
	variants := make([]any, 0, len(types))
	mapping := make(map[string]string, len(types))
	for _, sectionType := range types {
		schema, err := registry.JSONSchema(sectionType)
		if err != nil {
			return nil, err
		}
		name := SectionSchemaName(sectionType)
		doc.AddSchema(name, schema)
		variants = append(variants, ref(name))
		mapping[sectionType] = "#/components/schemas/" + name
	}
	doc.AddSchema("Section", map[string]any{
		"oneOf":         variants,
		"discriminator": map[string]any{"propertyName": "type", "mapping": mapping},
	})
	doc.AddSchema("Error", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"error":           map[string]any{"type": "string"},
			"message":         map[string]any{"type": "string"},
			"current_version": map[string]any{"type": "integer"},
		},
	})

	base := "/" + strings.Trim(basePath, "/")
	for _, route := range routes {
		op := Operation{
			Summary:   route.summary,
			Tags:      []string{route.tag},
			Responses: map[string]Response{route.status: {Description: http.StatusText(statusCode(route.status))}},
		}
		if route.session {
			op.Security = []map[string][]any{{"session": {}}}
			op.Responses["403"] = Response{Description: "Forbidden", Content: jsonBody(ref("Error"))}
		}
		if route.body {
			op.RequestBody = &RequestBody{Required: true, Content: jsonBody(map[string]any{"type": "object"})}
			op.Responses["400"] = Response{Description: "Bad Request", Content: jsonBody(ref("Error"))}
		}
		doc.AddOperation(path.Join(base, route.path), route.method, op)
	}
	return doc, nil
}

// MarshalJSON adds the cookie security scheme the routes refer to.
func (d *Document) MarshalJSON() ([]byte, error) {
	type alias Document
	out := struct {
		*alias
		Components map[string]any `json:"components"`
	}{alias: (*alias)(d)}
	out.Components = map[string]any{
		"schemas": d.Components.Schemas,
		"securitySchemes": map[string]any{
			"session": map[string]any{"type": "apiKey", "in": "cookie", "name": "sitecms_session"},
		},
	}
	return json.Marshal(out)
}

func statusCode(status string) int {
	switch status {
	case "201":
		return http.StatusCreated
	case "204":
		return http.StatusNoContent
	default:
		return http.StatusOK
	}
}

type route struct {
	method  string
	path    string
	tag     string
	summary string
	status  string
	session bool
	body    bool
}

var routes = []route{
	{method: "GET", path: "health", tag: "system", summary: "Report service and database health", status: "200"},
	{method: "GET", path: "openapi.json", tag: "system", summary: "Describe this API", status: "200"},
	{method: "GET", path: "section-types", tag: "system", summary: "List section type descriptors", status: "200"},
	{method: "GET", path: "section-types/{type}/schema", tag: "system", summary: "JSON schema of a section type", status: "200"},
	{method: "POST", path: "seed/pages-menus", tag: "system", summary: "Create missing system pages and menus", status: "200", session: true},
	{method: "POST", path: "auth/login", tag: "auth", summary: "Open a session", status: "200", body: true},
	{method: "POST", path: "auth/logout", tag: "auth", summary: "Close the session", status: "200"},
	{method: "GET", path: "auth/session", tag: "auth", summary: "Describe the current session", status: "200"},
	{method: "GET", path: "pages", tag: "pages", summary: "List pages", status: "200"},
	{method: "POST", path: "pages", tag: "pages", summary: "Create a page", status: "201", session: true, body: true},
	{method: "GET", path: "pages/slug/{slug}", tag: "pages", summary: "Load a page by slug", status: "200"},
	{method: "GET", path: "pages/slug/{slug}/render", tag: "pages", summary: "Render a page for a language", status: "200"},
	{method: "GET", path: "pages/{id}", tag: "pages", summary: "Load a page by id", status: "200"},
	{method: "PUT", path: "pages/{id}", tag: "pages", summary: "Update a page", status: "200", session: true, body: true},
	{method: "DELETE", path: "pages/{id}", tag: "pages", summary: "Delete a page", status: "204", session: true},
	{method: "GET", path: "menus", tag: "menus", summary: "List menus", status: "200"},
	{method: "POST", path: "menus", tag: "menus", summary: "Create a menu", status: "201", session: true, body: true},
	{method: "GET", path: "menus/{name}", tag: "menus", summary: "Load a menu", status: "200"},
	{method: "PUT", path: "menus/{name}", tag: "menus", summary: "Replace the item tree of a menu", status: "200", session: true, body: true},
	{method: "DELETE", path: "menus/{name}", tag: "menus", summary: "Delete a menu", status: "204", session: true},
	{method: "GET", path: "navigation/{name}", tag: "menus", summary: "Resolve a menu for a language", status: "200"},
	{method: "POST", path: "media/upload", tag: "media", summary: "Upload an image", status: "201", session: true},
	{method: "GET", path: "media/{name}", tag: "media", summary: "Serve an uploaded image", status: "200"},
}
