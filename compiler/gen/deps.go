package gen

import (
	"sort"
	"strings"
)

// Version floors of the generated project's dependencies.
const (
	frameworkSpec  = "storekit"
	frameworkFloor = ">=0.9"
	serverSpec     = "uvicorn>=0.30"
)

// dependencies resolves the manifest specifier list: the base framework
// dependency with its extras bracket, followed by the fixed ASGI server.
// The extras bracket is the sorted, deduplicated union of every triggered
// extra tag, omitted entirely when empty. Whenever the object-storage extra
// is present, the binary content-sniffing extra is force-added.
func (g *Generator) dependencies(storage *storagePlan) []string {
	extras := make(map[string]struct{}, len(storage.extras))
	for tag := range storage.extras {
		extras[tag] = struct{}{}
	}
	if _, ok := extras[extraS3]; ok {
		extras[extraMagic] = struct{}{}
	}

	base := frameworkSpec
	if len(extras) > 0 {
		tags := make([]string, 0, len(extras))
		for tag := range extras {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		base += "[" + strings.Join(tags, ",") + "]"
	}
	base += frameworkFloor
	return []string{base, serverSpec}
}
