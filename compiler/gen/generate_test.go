package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilnproject/kiln/compiler/load"
)

func fileByName(t *testing.T, files []File, name string) File {
	t.Helper()
	for _, f := range files {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("no artifact named %s", name)
	return File{}
}

func TestGenerateEmptyState(t *testing.T) {
	files, err := Generate(&load.State{})
	require.NoError(t, err)
	require.Len(t, files, 4)

	assert.Equal(t, ManifestFile, files[0].Name)
	assert.Equal(t, "application/toml", files[0].ContentType)
	assert.Equal(t, MainFile, files[1].Name)
	assert.Equal(t, "text/x-python", files[1].ContentType)
	assert.Equal(t, ReadmeFile, files[2].Name)
	assert.Equal(t, "text/markdown", files[2].ContentType)
	assert.Equal(t, PinFile, files[3].Name)
	assert.Equal(t, "text/plain", files[3].ContentType)

	manifest := strings.Join([]string{
		"[project]",
		`name = "service"`,
		`version = "0.1.0"`,
		`description = "Service is a storekit-based backend service."`,
		`requires-python = ">=3.12"`,
		"dependencies = [",
		`    "storekit>=0.9",`,
		`    "uvicorn>=0.30",`,
		"]",
		"",
	}, "\n")
	assert.Equal(t, manifest, string(files[0].Content))

	main := strings.Join([]string{
		"import uvicorn",
		"",
		"from storekit import configure_storage, create_app",
		"from storekit.routes import mount_routes",
		"",
		"",
		"configure_storage()",
		"",
		"# Uncomment after editing models to generate a schema migration:",
		"# from storekit.migrations import run_migrations",
		"# run_migrations()",
		"",
		`app = create_app(title="Service")`,
		"",
		"mount_routes(app)",
		"",
		`if __name__ == "__main__":`,
		`    uvicorn.run(app, host="0.0.0.0", port=8000)`,
		"",
	}, "\n")
	assert.Equal(t, main, string(files[1].Content))

	assert.Equal(t, "3.12\n", string(files[3].Content))

	readme := string(files[2].Content)
	assert.Contains(t, readme, "# Service")
	assert.Contains(t, readme, "The service listens on port 8000.")
	assert.Contains(t, readme, "Items are held in memory and lost on restart.")
}

func TestGenerateDiskBackend(t *testing.T) {
	files, err := Generate(&load.State{
		Project: "notes",
		Storage: load.Storage{Backend: "disk"},
		Models: []*load.Model{
			{Name: "Note", Fields: []*load.Field{{Name: "body", Type: "string"}}},
		},
	})
	require.NoError(t, err)

	manifest := string(fileByName(t, files, ManifestFile).Content)
	assert.Contains(t, manifest, `"storekit>=0.9",`)
	assert.NotContains(t, manifest, "storekit[")
	assert.Contains(t, manifest, `name = "notes"`)

	main := string(fileByName(t, files, MainFile).Content)
	assert.Contains(t, main, `configure_storage(FileStore(root="./data"))`)
	assert.Contains(t, main, "class Note(Model):")
	assert.Contains(t, main, "register(Note)")
}

func TestGenerateRegistration(t *testing.T) {
	files, err := Generate(&load.State{
		Project: "shop",
		Models: []*load.Model{{
			Name:      "Item",
			Version:   "2",
			Validator: true,
			Fields: []*load.Field{
				{Name: "title", Type: "string", Indexed: true},
				{Name: "count", Type: "int", Default: "0"},
			},
		}},
	})
	require.NoError(t, err)

	main := string(fileByName(t, files, MainFile).Content)
	assert.Contains(t, main,
		`register(Item, version="2", validator=ItemValidator, indexes=[("title", "str")])`)
	assert.Contains(t, main, "class ItemValidator(Validator):")
	assert.Contains(t, main, "    def validate(self, item):")
	assert.Contains(t, main, "        return []")
}

func TestGenerateAPISchema(t *testing.T) {
	files, err := Generate(&load.State{
		Project:   "shop",
		APISchema: true,
		Models: []*load.Model{
			{Name: "Item", Fields: []*load.Field{{Name: "title", Type: "string"}}},
		},
	})
	require.NoError(t, err)
	require.Len(t, files, 5)

	schema := fileByName(t, files, SchemaFile)
	assert.Equal(t, "application/yaml", schema.ContentType)
	doc := string(schema.Content)
	assert.Contains(t, doc, "openapi: 3.0.3")
	assert.Contains(t, doc, "/items:")
	assert.Contains(t, doc, "/items/{item_id}:")

	main := string(fileByName(t, files, MainFile).Content)
	assert.Contains(t, main, "mount_schema(app)")
}

func TestGenerateIdempotent(t *testing.T) {
	state := &load.State{
		Project:   "asset_vault",
		Encoding:  "msgpack",
		Timezone:  "Europe/Berlin",
		CORS:      true,
		APISchema: true,
		Storage: load.Storage{
			Backend:  "custom",
			Meta:     &load.MetaStore{Kind: "fast-slow"},
			Resource: &load.ResourceStore{Kind: "queue-cached-object-store"},
		},
		Models: []*load.Model{{
			Name: "Asset",
			Fields: []*load.Field{
				{Name: "title", Type: "string", DisplayName: true},
				{Name: "payload", Type: "binary"},
				{Name: "owner", Type: "ref", Target: "User", OnDelete: "cascade"},
			},
		}},
	}

	first, err := Generate(state)
	require.NoError(t, err)
	second, err := Generate(state)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].Content, second[i].Content, first[i].Name)
	}
}

func TestGenerateWithOptions(t *testing.T) {
	files, err := Generate(&load.State{Project: "shop"},
		WithHeader("managed by the provisioning pipeline"),
		WithVersion("1.2.3"),
	)
	require.NoError(t, err)

	main := string(fileByName(t, files, MainFile).Content)
	assert.True(t, strings.HasPrefix(main, "# managed by the provisioning pipeline\n"))

	manifest := string(fileByName(t, files, ManifestFile).Content)
	assert.Contains(t, manifest, `version = "1.2.3"`)
}

func TestGenerateNilState(t *testing.T) {
	_, err := Generate(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingConfig)
}

func TestModelStyles(t *testing.T) {
	base := func(style string) string {
		files, err := Generate(&load.State{
			Project:    "shop",
			ModelStyle: style,
			Models: []*load.Model{
				{Name: "Item", Fields: []*load.Field{{Name: "title", Type: "string"}}},
			},
		})
		require.NoError(t, err)
		return string(fileByName(t, files, MainFile).Content)
	}

	assert.Contains(t, base(""), "class Item(Model):")
	assert.Contains(t, base("dataclass"), "@datamodel\nclass Item:")
	assert.Contains(t, base("dataclass"), "from storekit.model import datamodel")
}

func TestFieldOrdering(t *testing.T) {
	files, err := Generate(&load.State{
		Project: "shop",
		Models: []*load.Model{{
			Name: "Item",
			Fields: []*load.Field{
				{Name: "count", Type: "int", Default: "0"},
				{Name: "title", Type: "string"},
				{Name: "note", Type: "string", Optional: true},
				{Name: "owner", Type: "string"},
			},
		}},
	})
	require.NoError(t, err)

	main := string(fileByName(t, files, MainFile).Content)
	chunk := strings.Join([]string{
		"class Item(Model):",
		"    title: str",
		"    owner: str",
		"    count: int = 0",
		"    note: Optional[str] = None",
	}, "\n")
	assert.Contains(t, main, chunk)
}

func TestEnumAndSubStruct(t *testing.T) {
	files, err := Generate(&load.State{
		Project: "shop",
		Models: []*load.Model{{
			Name: "Order",
			Fields: []*load.Field{
				{Name: "status", Type: "enum"},
				{Name: "shipping", Type: "struct", Struct: "Address"},
			},
			Enums: []*load.Enum{{
				Name: "Status",
				Values: []load.EnumValue{
					{Key: "OPEN", Label: "Open"},
					{Key: "CLOSED", Label: "Closed"},
				},
			}},
			SubStructs: []*load.SubStruct{{
				Name: "Address",
				Tag:  "address",
				Fields: []*load.Field{
					{Name: "street", Type: "string"},
					{Name: "zip", Type: "string", Optional: true},
				},
			}},
		}},
	})
	require.NoError(t, err)
	main := string(fileByName(t, files, MainFile).Content)

	enum := strings.Join([]string{
		"class Status(Enum):",
		`    OPEN = "Open"`,
		`    CLOSED = "Closed"`,
	}, "\n")
	assert.Contains(t, main, enum)

	sub := strings.Join([]string{
		"class Address(Model):",
		`    __tag__ = "address"`,
		"    street: str",
		"    zip: Optional[str] = None",
	}, "\n")
	assert.Contains(t, main, sub)

	assert.Contains(t, main, "    status: Status")
	assert.Contains(t, main, "    shipping: Address")

	idx := strings.Index(main, "class Status(Enum):")
	require.Greater(t, idx, 0)
	assert.Less(t, idx, strings.Index(main, "class Address(Model):"))
	assert.Less(t, strings.Index(main, "class Address(Model):"), strings.Index(main, "class Order(Model):"))
}

func TestCodeModeModel(t *testing.T) {
	raw := "class Item(Model):\n    title: str\n\n"
	files, err := Generate(&load.State{
		Project: "shop",
		Models:  []*load.Model{{Name: "Item", Mode: "code", Raw: raw}},
	})
	require.NoError(t, err)

	main := string(fileByName(t, files, MainFile).Content)
	assert.Contains(t, main, "class Item(Model):\n    title: str\n\n\nconfigure_storage()")
	assert.Contains(t, main, "register(Item)")
}

func TestZonedClock(t *testing.T) {
	files, err := Generate(&load.State{Project: "shop", Timezone: "Europe/Berlin"})
	require.NoError(t, err)
	main := string(fileByName(t, files, MainFile).Content)
	assert.Contains(t, main, "from zoneinfo import ZoneInfo")
	expected := strings.Join([]string{
		"app = create_app(",
		`    title="Shop",`,
		`    timezone=ZoneInfo("Europe/Berlin"),`,
		")",
	}, "\n")
	assert.Contains(t, main, expected)
}
