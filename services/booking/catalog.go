package booking

// Catalog resolves service and location ids to display names. Catalog
// management lives in an external system; this core only needs descriptors
// for rendering.
type Catalog interface {
	ServiceName(id string) (string, bool)
	LocationName(id string) (string, bool)
}

// StaticCatalog is the built-in descriptor set used until the external
// catalog collaborator is wired in.
type StaticCatalog struct{}

var serviceNames = map[string]string{
	"1":  "Plumbing",
	"2":  "Electrical",
	"3":  "HVAC Repair",
	"4":  "Appliance Repair",
	"5":  "Carpentry",
	"6":  "Painting",
	"7":  "Roofing",
	"8":  "Pest Control",
	"9":  "Network Installation",
	"10": "Solar Maintenance",
}

func (StaticCatalog) ServiceName(id string) (string, bool) {
	name, ok := serviceNames[id]
	return name, ok
}

func (StaticCatalog) LocationName(id string) (string, bool) {
	// Locations are customer-entered references; no static directory exists.
	return "", false
}
