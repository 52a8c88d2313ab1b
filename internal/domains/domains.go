package domains

import (
	"fmt"
	"sort"

	"clinicsetup/domain/core"
	"clinicsetup/domain/merge"
	"clinicsetup/domain/schema"
	"clinicsetup/domain/sheet"
)

// Collection names held by a setup session.
const (
	BusinessInformation = "business_information"
	ClinicLocations     = "clinic_locations"
	Staff               = "staff"
	Services            = "services"
	Equipment           = "equipment"
	Resources           = "resources"
	Inventory           = "inventory"
	Packages            = "packages"
	Memberships         = "memberships"
)

// Output binds one top-level response key to the session collection it
// feeds and the policy used to merge it.
type Output struct {
	ResponseKey string
	Collection  string
	Schema      schema.EntitySchema
	Policy      merge.Policy
}

// Domain is the import configuration of one spreadsheet kind.
type Domain struct {
	Name         string
	Sheets       []sheet.SheetSpec
	Outputs      []Output
	Instructions string
}

// Envelope returns the declared response shape of the domain.
func (d *Domain) Envelope() schema.Envelope {
	env := schema.Envelope{Name: d.Name}
	for _, out := range d.Outputs {
		env.Entries = append(env.Entries, schema.EnvelopeEntry{Key: out.ResponseKey, Schema: out.Schema})
	}
	return env
}

// Collections lists the session collections the domain writes.
func (d *Domain) Collections() []string {
	names := make([]string, 0, len(d.Outputs))
	for _, out := range d.Outputs {
		names = append(names, out.Collection)
	}
	return names
}

var (
	equipmentHeader = []string{
		"Name of Device",
		"Which Clinic houses this device?",
		"What is the schedule for this device?",
	}
	resourceHeader = []string{
		"Name of Resource",
		"Which Clinic houses this resource?",
		"What type of resource is this?",
	}
	inventoryHeader = []string{"Category", "Product Name", "Cost to company", "Price", "Member Price", "Tax"}
)

// Registry maps import domain names to their configuration.
var Registry = map[string]*Domain{
	Memberships: {
		Name:   Memberships,
		Sheets: []sheet.SheetSpec{{Key: "memberships", Index: 0}},
		Outputs: []Output{{
			ResponseKey: "memberships",
			Collection:  Memberships,
			Schema:      membershipSchema,
			Policy:      merge.KeyOverwrite{Key: merge.FieldKey(membershipSchema.IdentityFields()...)},
		}},
		Instructions: membershipInstructions,
	},
	Packages: {
		Name: Packages,
		Sheets: []sheet.SheetSpec{
			{Key: "discounts", Index: 0},
			{Key: "packages", Index: 1, Optional: true},
		},
		Outputs: []Output{{
			ResponseKey: "packages",
			Collection:  Packages,
			Schema:      packageSchema,
			Policy:      merge.KeyOverwrite{Key: merge.FieldKey(packageSchema.IdentityFields()...)},
		}},
		Instructions: packageInstructions,
	},
	Staff: {
		Name: Staff,
		Sheets: []sheet.SheetSpec{
			{Key: "staff", Index: 0},
			{Key: "hours", Index: 1, Optional: true},
		},
		Outputs: []Output{{
			ResponseKey: "staffMembers",
			Collection:  Staff,
			Schema:      staffSchema,
			Policy:      merge.KeySkipDuplicate{Key: merge.FieldKey(staffSchema.IdentityFields()...)},
		}},
		Instructions: staffInstructions,
	},
	Services: {
		Name:   Services,
		Sheets: []sheet.SheetSpec{{Key: "services", Index: 0}},
		Outputs: []Output{{
			ResponseKey: "services",
			Collection:  Services,
			Schema:      serviceSchema,
			Policy:      merge.Concatenate{},
		}},
		Instructions: serviceInstructions,
	},
	Equipment: {
		Name: Equipment,
		Sheets: []sheet.SheetSpec{
			{Key: "equipment", Name: "Equipment", Index: 0, Header: sheet.HeaderSpec{Kind: "Equipment", Labels: equipmentHeader}},
			{Key: "resources", Name: "Resources", Index: 1, Header: sheet.HeaderSpec{Kind: "Resources", Labels: resourceHeader}},
		},
		Outputs: []Output{
			{ResponseKey: "equipment", Collection: Equipment, Schema: equipmentSchema, Policy: merge.Concatenate{}},
			{ResponseKey: "resources", Collection: Resources, Schema: resourceSchema, Policy: merge.Concatenate{}},
		},
		Instructions: equipmentInstructions,
	},
	Inventory: {
		Name:   Inventory,
		Sheets: []sheet.SheetSpec{{Key: "inventory", Index: 0, Header: sheet.HeaderSpec{Kind: "Inventory", Labels: inventoryHeader}}},
		Outputs: []Output{{
			ResponseKey: "inventory",
			Collection:  Inventory,
			Schema:      inventorySchema,
			Policy:      merge.Concatenate{},
		}},
		Instructions: inventoryInstructions,
	},
}

// Schemas maps every session collection to its entity schema, including the
// form-only collections that are never imported.
var Schemas = map[string]schema.EntitySchema{
	BusinessInformation: businessInformationSchema,
	ClinicLocations:     clinicLocationSchema,
	Staff:               staffSchema,
	Services:            serviceSchema,
	Equipment:           equipmentSchema,
	Resources:           resourceSchema,
	Inventory:           inventorySchema,
	Packages:            packageSchema,
	Memberships:         membershipSchema,
}

// Lookup returns the import domain with the given name.
func Lookup(name string) (*Domain, error) {
	d, ok := Registry[name]
	if !ok {
		return nil, core.NewUnknownDomainError(name)
	}
	return d, nil
}

// SchemaFor returns the entity schema of a session collection.
func SchemaFor(collection string) (schema.EntitySchema, error) {
	s, ok := Schemas[collection]
	if !ok {
		return schema.EntitySchema{}, fmt.Errorf("%w: collection %s", core.ErrUnknownDomain, collection)
	}
	return s, nil
}

// Names lists the import domains in sorted order.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CollectionNames lists every session collection in wizard order.
func CollectionNames() []string {
	return []string{
		BusinessInformation,
		ClinicLocations,
		Staff,
		Services,
		Equipment,
		Resources,
		Inventory,
		Packages,
		Memberships,
	}
}
