package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilnproject/kiln/compiler/load"
)

func testImports(t *testing.T, state *load.State) []string {
	t.Helper()
	g, err := New(state)
	require.NoError(t, err)
	return g.imports(g.compileStorage())
}

func TestImportsMinimal(t *testing.T) {
	lines := testImports(t, &load.State{
		Project: "shop",
		Models: []*load.Model{
			{Name: "Item", Fields: []*load.Field{{Name: "title", Type: "string"}}},
		},
	})
	assert.Equal(t, []string{
		"import uvicorn",
		"",
		"from storekit import configure_storage, create_app",
		"from storekit.model import Model",
		"from storekit.registry import register",
		"from storekit.routes import mount_routes",
	}, lines)
}

func TestImportsFull(t *testing.T) {
	lines := testImports(t, &load.State{
		Project:    "shop",
		Encoding:   "msgpack",
		Timezone:   "Europe/Berlin",
		CORS:       true,
		APISchema:  true,
		ModelStyle: "dataclass",
		Storage:    load.Storage{Backend: "disk"},
		Models: []*load.Model{
			{Name: "Item", Fields: []*load.Field{
				{Name: "created_at", Type: "datetime"},
				{Name: "title", Type: "string", DisplayName: true},
				{Name: "note", Type: "string", Optional: true},
			}},
		},
	})
	assert.Equal(t, []string{
		"from datetime import datetime",
		"from typing import Annotated, Optional",
		"from zoneinfo import ZoneInfo",
		"",
		"import uvicorn",
		"",
		"from storekit import configure_storage, create_app",
		"from storekit.encoding import Encoding",
		"from storekit.middleware import enable_cors",
		"from storekit.model import datamodel",
		"from storekit.openapi import mount_schema",
		"from storekit.registry import register",
		"from storekit.routes import mount_routes",
		"from storekit.stores import FileStore",
		"from storekit.types import DisplayName",
	}, lines)
}

func TestImportsCodeModeScan(t *testing.T) {
	raw := "class Item(Model):\n" +
		"    owner: Ref[\"User\", OnDelete.CASCADE]\n"
	lines := testImports(t, &load.State{
		Project: "shop",
		Models:  []*load.Model{{Name: "Item", Mode: "code", Raw: raw}},
	})
	assert.Equal(t, []string{
		"import uvicorn",
		"",
		"from storekit import configure_storage, create_app",
		"from storekit.model import Model",
		"from storekit.registry import register",
		"from storekit.routes import mount_routes",
		"from storekit.types import OnDelete, Ref",
	}, lines)
}

func TestImportsCodeModeRevisionRefOnly(t *testing.T) {
	raw := "class Item(Model):\n" +
		"    draft: RevisionRef[\"Post\"]\n"
	lines := testImports(t, &load.State{
		Project: "shop",
		Models:  []*load.Model{{Name: "Item", Mode: "code", Raw: raw}},
	})
	assert.Equal(t, []string{
		"import uvicorn",
		"",
		"from storekit import configure_storage, create_app",
		"from storekit.model import Model",
		"from storekit.registry import register",
		"from storekit.routes import mount_routes",
		"from storekit.types import RevisionRef",
	}, lines)
}

func TestImportsNoModels(t *testing.T) {
	lines := testImports(t, &load.State{Project: "shop"})
	assert.Equal(t, []string{
		"import uvicorn",
		"",
		"from storekit import configure_storage, create_app",
		"from storekit.routes import mount_routes",
	}, lines)
}

func TestFromImport(t *testing.T) {
	got := fromImport("typing", []string{"Optional", "Annotated", "Optional"})
	assert.Equal(t, "from typing import Annotated, Optional", got)
}
