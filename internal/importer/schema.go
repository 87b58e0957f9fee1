package importer

import "fmt"

// Role marks fields with pipeline-level meaning. The ID and name roles are
// the two fields every entity kind requires on manual add.
type Role int

const (
	RoleNone Role = iota
	RoleID
	RoleName
	RoleForeignKey
)

// Coerce selects the per-field conversion applied by the transformer.
type Coerce int

const (
	// CoercePass keeps the trimmed cell value as a string.
	CoercePass Coerce = iota
	// CoerceID forces the value to a string and never drops it silently.
	CoerceID
	// CoerceForeignID treats "-" and "" as an explicit absence of reference.
	CoerceForeignID
	// CoerceNumber parses a float and omits the field when parsing fails.
	CoerceNumber
	// CoerceNumberOrZero parses a float and falls back to 0.
	CoerceNumberOrZero
	// CoerceBool maps the literals "true" and "1" to true, anything else to false.
	CoerceBool
)

// FieldSpec describes one canonical field of an entity kind. The same spec
// drives column inference, validation and transformation so the three stages
// cannot drift apart.
type FieldSpec struct {
	// Canonical is the normalized field name, independent of the source
	// spreadsheet's column naming.
	Canonical string
	// Label is the human-readable name used in validation messages.
	Label string
	Role     Role
	Required bool
	Coerce   Coerce
	// Match holds lower-case substrings that identify source columns for
	// this field. Longer substrings score higher during inference.
	Match []string
}

// EntitySchema is the ordered field list for one entity kind.
type EntitySchema struct {
	Entity string
	Fields []FieldSpec
}

// Field returns the spec for a canonical field name, or nil.
func (s *EntitySchema) Field(canonical string) *FieldSpec {
	for i := range s.Fields {
		if s.Fields[i].Canonical == canonical {
			return &s.Fields[i]
		}
	}
	return nil
}

// RequiredFields returns the required fields in schema order.
func (s *EntitySchema) RequiredFields() []FieldSpec {
	var out []FieldSpec
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

func (s *EntitySchema) roleField(role Role) *FieldSpec {
	for i := range s.Fields {
		if s.Fields[i].Role == role {
			return &s.Fields[i]
		}
	}
	return nil
}

// IDField returns the primary identifier field of the entity.
func (s *EntitySchema) IDField() *FieldSpec { return s.roleField(RoleID) }

// NameField returns the display-name field of the entity.
func (s *EntitySchema) NameField() *FieldSpec { return s.roleField(RoleName) }

// MagasinSchema describes the store entity.
var MagasinSchema = &EntitySchema{
	Entity: "magasins",
	Fields: []FieldSpec{
		{Canonical: "magasin_id", Label: "Store ID", Role: RoleID, Required: true, Coerce: CoerceID, Match: []string{"magasin_id", "id"}},
		{Canonical: "nom_magasin", Label: "Store name", Role: RoleName, Required: true, Coerce: CoercePass, Match: []string{"nom_magasin", "nom", "name"}},
		{Canonical: "surface", Label: "Surface", Coerce: CoerceNumberOrZero, Match: []string{"surface"}},
		{Canonical: "longueur", Label: "Length", Coerce: CoerceNumberOrZero, Match: []string{"longueur", "length"}},
		{Canonical: "largeur", Label: "Width", Coerce: CoerceNumberOrZero, Match: []string{"largeur", "width"}},
		{Canonical: "zones_configurees", Label: "Zones configured", Coerce: CoerceBool, Match: []string{"zones_configurees", "zones"}},
		{Canonical: "adresse", Label: "Address", Coerce: CoercePass, Match: []string{"adresse", "address"}},
		{Canonical: "date_creation", Label: "Created at", Coerce: CoercePass, Match: []string{"date_creation", "created"}},
		{Canonical: "date_modification", Label: "Updated at", Coerce: CoercePass, Match: []string{"date_modification", "updated"}},
	},
}

// CategorieSchema describes the category entity.
var CategorieSchema = &EntitySchema{
	Entity: "categories",
	Fields: []FieldSpec{
		{Canonical: "categorie_id", Label: "Category ID", Role: RoleID, Required: true, Coerce: CoerceID, Match: []string{"categorie_id", "id"}},
		{Canonical: "nom", Label: "Category name", Role: RoleName, Required: true, Coerce: CoercePass, Match: []string{"nom", "name"}},
		{Canonical: "parent_id", Label: "Parent ID", Role: RoleForeignKey, Coerce: CoerceForeignID, Match: []string{"parent_id", "parent"}},
		{Canonical: "niveau", Label: "Level", Coerce: CoerceNumber, Match: []string{"niveau", "level"}},
		{Canonical: "saisonnalite", Label: "Seasonality", Coerce: CoercePass, Match: []string{"saisonnalite", "season"}},
		{Canonical: "priorite", Label: "Priority", Coerce: CoerceNumber, Match: []string{"priorite", "priority"}},
		{Canonical: "zone_exposition_preferee", Label: "Preferred exposure zone", Coerce: CoercePass, Match: []string{"zone_exposition", "exposition_zone"}},
		{Canonical: "temperature_exposition", Label: "Exposure temperature", Coerce: CoercePass, Match: []string{"temperature", "temp"}},
		{Canonical: "conditionnement", Label: "Packaging", Coerce: CoercePass, Match: []string{"conditionnement", "packaging"}},
		{Canonical: "clientele_ciblee", Label: "Target clientele", Coerce: CoercePass, Match: []string{"clientele", "target"}},
		{Canonical: "magasin_id", Label: "Store ID", Coerce: CoerceID, Match: []string{"magasin_id", "store_id"}},
		{Canonical: "date_creation", Label: "Created at", Coerce: CoercePass, Match: []string{"date_creation", "created"}},
		{Canonical: "date_modification", Label: "Updated at", Coerce: CoercePass, Match: []string{"date_modification", "updated"}},
	},
}

// ZoneSchema describes the store-zone entity.
var ZoneSchema = &EntitySchema{
	Entity: "zones",
	Fields: []FieldSpec{
		{Canonical: "zone_id", Label: "Zone ID", Role: RoleID, Required: true, Coerce: CoerceID, Match: []string{"zone_id", "id"}},
		{Canonical: "nom_zone", Label: "Zone name", Role: RoleName, Required: true, Coerce: CoercePass, Match: []string{"nom_zone", "nom", "name"}},
		{Canonical: "magasin_id", Label: "Store ID", Role: RoleForeignKey, Required: true, Coerce: CoerceID, Match: []string{"magasin_id", "magasin", "store_id"}},
		{Canonical: "description", Label: "Description", Coerce: CoercePass, Match: []string{"description"}},
		{Canonical: "emplacement", Label: "Location", Coerce: CoercePass, Match: []string{"emplacement", "location"}},
		{Canonical: "date_creation", Label: "Created at", Coerce: CoercePass, Match: []string{"date_creation", "created"}},
		{Canonical: "date_modification", Label: "Updated at", Coerce: CoercePass, Match: []string{"date_modification", "updated"}},
	},
}

var schemas = map[string]*EntitySchema{
	MagasinSchema.Entity:   MagasinSchema,
	CategorieSchema.Entity: CategorieSchema,
	ZoneSchema.Entity:      ZoneSchema,
}

// SchemaFor resolves an entity kind to its schema.
func SchemaFor(entity string) (*EntitySchema, error) {
	s, ok := schemas[entity]
	if !ok {
		return nil, fmt.Errorf("unknown import entity %q", entity)
	}
	return s, nil
}
