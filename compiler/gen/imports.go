package gen

import (
	"sort"
	"strings"

	"github.com/kilnproject/kiln/schema"
)

// importNeeds accumulates every import trigger found across the models and
// feature flags. Each non-empty need becomes exactly one import line.
type importNeeds struct {
	datetime bool
	enums    bool
	zoneinfo bool

	// typing helper symbols: Annotated, Optional, Union.
	typing map[string]struct{}
	// framework typing symbols: Binary, DisplayName, OnDelete, Ref,
	// RevisionRef.
	domainTypes map[string]struct{}
	// framework store constructors, filled by the storage compiler.
	stores map[string]struct{}

	models    bool
	validator bool
}

func newImportNeeds() *importNeeds {
	return &importNeeds{
		typing:      make(map[string]struct{}),
		domainTypes: make(map[string]struct{}),
		stores:      make(map[string]struct{}),
	}
}

// Tokens scanned for in code-mode model bodies. A best-effort heuristic:
// renaming an import in the raw body produces a false negative, and a token
// appearing in a string literal produces a harmless extra import.
var codeTokens = []struct {
	token string
	mark  func(*importNeeds)
}{
	{"datetime", func(n *importNeeds) { n.datetime = true }},
	{"Enum", func(n *importNeeds) { n.enums = true }},
	{"Annotated[", func(n *importNeeds) { n.typing["Annotated"] = struct{}{} }},
	{"Optional[", func(n *importNeeds) { n.typing["Optional"] = struct{}{} }},
	{"Union[", func(n *importNeeds) { n.typing["Union"] = struct{}{} }},
	{"Binary", func(n *importNeeds) { n.domainTypes["Binary"] = struct{}{} }},
	{"DisplayName", func(n *importNeeds) { n.domainTypes["DisplayName"] = struct{}{} }},
	{"OnDelete.", func(n *importNeeds) { n.domainTypes["OnDelete"] = struct{}{} }},
	{"Ref[", func(n *importNeeds) { n.domainTypes["Ref"] = struct{}{} }},
	{"RevisionRef[", func(n *importNeeds) { n.domainTypes["RevisionRef"] = struct{}{} }},
	{"Model", func(n *importNeeds) { n.models = true }},
	{"Validator", func(n *importNeeds) { n.validator = true }},
}

// scan inspects the models and flags and fills the accumulated needs.
// Form-mode models are inspected structurally; code-mode bodies fall back
// to the token scan above.
func (g *Generator) scan(needs *importNeeds) {
	if g.zonedClock() {
		needs.zoneinfo = true
	}
	for _, m := range g.models {
		if m.Mode == schema.Code {
			// "Ref[" is a substring of "RevisionRef["; the masked body hides
			// the longer token so a body using only revision references does
			// not pull in the Ref import.
			masked := strings.ReplaceAll(m.Raw, "RevisionRef[", " ")
			for _, t := range codeTokens {
				body := m.Raw
				if t.token == "Ref[" {
					body = masked
				}
				if strings.Contains(body, t.token) {
					t.mark(needs)
				}
			}
		} else {
			needs.models = true
			for _, f := range m.Fields {
				scanField(needs, f)
			}
		}
		if len(m.Enums) > 0 {
			needs.enums = true
		}
		for _, s := range m.SubStructs {
			needs.models = true
			for _, f := range s.Fields {
				scanField(needs, f)
			}
		}
		if m.Validator != nil {
			needs.validator = true
		}
	}
}

func scanField(needs *importNeeds, f *schema.Field) {
	switch t := f.Type.(type) {
	case schema.Scalar:
		if t.Kind == schema.String && f.DisplayName {
			needs.typing["Annotated"] = struct{}{}
			needs.domainTypes["DisplayName"] = struct{}{}
		}
	case schema.DateTime:
		needs.datetime = true
	case schema.Binary:
		needs.typing["Optional"] = struct{}{}
		needs.domainTypes["Binary"] = struct{}{}
	case schema.Ref:
		if t.Target == "" {
			return
		}
		needs.domainTypes["Ref"] = struct{}{}
		if t.OnDelete != schema.Dangling {
			needs.domainTypes["OnDelete"] = struct{}{}
		}
	case schema.RevisionRef:
		if t.Target == "" {
			return
		}
		needs.domainTypes["RevisionRef"] = struct{}{}
		if f.Optional {
			needs.typing["Optional"] = struct{}{}
		}
	case schema.Union:
		if len(t.Members) > 0 {
			needs.typing["Union"] = struct{}{}
		}
	}
	// The external Optional wrap applies to any non-self-contained kind.
	if f.Optional && !selfContained(f.Type) {
		needs.typing["Optional"] = struct{}{}
	}
}

func selfContained(t schema.FieldType) bool {
	switch t := t.(type) {
	case schema.Binary:
		return true
	case schema.Ref:
		return t.Target != ""
	case schema.RevisionRef:
		return t.Target != ""
	}
	return false
}

// imports renders the grouped import block of main.py: standard library,
// third-party, and framework groups, each sorted and deduplicated, separated
// by one blank line, empty groups omitted.
func (g *Generator) imports(storage *storagePlan) []string {
	needs := newImportNeeds()
	g.scan(needs)
	for _, s := range storage.stores {
		needs.stores[s] = struct{}{}
	}

	var stdlib []string
	if needs.datetime {
		stdlib = append(stdlib, "from datetime import datetime")
	}
	if needs.enums {
		stdlib = append(stdlib, "from enum import Enum")
	}
	if len(needs.typing) > 0 {
		stdlib = append(stdlib, fromImport("typing", setList(needs.typing)))
	}
	if needs.zoneinfo {
		stdlib = append(stdlib, "from zoneinfo import ZoneInfo")
	}

	thirdParty := []string{"import uvicorn"}

	var domain []string
	domain = append(domain, fromImport("storekit", []string{"configure_storage", "create_app"}))
	if g.alternateEncoding() {
		domain = append(domain, fromImport("storekit.encoding", []string{"Encoding"}))
	}
	if g.state.CORS {
		domain = append(domain, fromImport("storekit.middleware", []string{"enable_cors"}))
	}
	if needs.models {
		symbol := "Model"
		if g.dataclassStyle() {
			symbol = "datamodel"
		}
		domain = append(domain, fromImport("storekit.model", []string{symbol}))
	}
	if g.state.APISchema {
		domain = append(domain, fromImport("storekit.openapi", []string{"mount_schema"}))
	}
	if len(g.models) > 0 {
		domain = append(domain, fromImport("storekit.registry", []string{"register"}))
	}
	domain = append(domain, fromImport("storekit.routes", []string{"mount_routes"}))
	if len(needs.stores) > 0 {
		domain = append(domain, fromImport("storekit.stores", setList(needs.stores)))
	}
	if len(needs.domainTypes) > 0 {
		domain = append(domain, fromImport("storekit.types", setList(needs.domainTypes)))
	}
	if needs.validator {
		domain = append(domain, fromImport("storekit.validation", []string{"Validator"}))
	}
	sort.Strings(domain)

	var lines []string
	for _, group := range [][]string{stdlib, thirdParty, domain} {
		if len(group) == 0 {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, group...)
	}
	return lines
}

// fromImport renders one import line with its symbols sorted and
// deduplicated exactly once.
func fromImport(module string, symbols []string) string {
	sort.Strings(symbols)
	dedup := symbols[:0]
	for _, s := range symbols {
		if len(dedup) == 0 || s != dedup[len(dedup)-1] {
			dedup = append(dedup, s)
		}
	}
	return "from " + module + " import " + strings.Join(dedup, ", ")
}

func setList(set map[string]struct{}) []string {
	list := make([]string, 0, len(set))
	for s := range set {
		list = append(list, s)
	}
	sort.Strings(list)
	return list
}
