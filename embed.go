package spyfall

import (
	_ "embed"
)

// Embed the location catalog
//
//go:embed static/locations.yaml
var LocationsYAML []byte
