package world

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed defaults/resources.json
var defaultResourcesJSON []byte

//go:embed defaults/resources.schema.json
var resourcesSchemaJSON string

const resourcesSchemaURL = "tileworld://resources.schema.json"

// DefaultCatalog returns the built-in resource set.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultResourcesJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded resource catalog: %v", err))
	}
	return c
}

func LoadCatalogFile(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}
	c, err := ParseCatalog(raw)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog validates raw against the catalog schema before decoding.
func ParseCatalog(raw []byte) (Catalog, error) {
	schema, err := jsonschema.CompileString(resourcesSchemaURL, resourcesSchemaJSON)
	if err != nil {
		return Catalog{}, fmt.Errorf("compile resource schema: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return Catalog{}, fmt.Errorf("decode resources: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return Catalog{}, fmt.Errorf("validate resources: %w", err)
	}
	var resources []Resource
	if err := json.Unmarshal(raw, &resources); err != nil {
		return Catalog{}, fmt.Errorf("decode resources: %w", err)
	}
	return NewCatalog(resources)
}
