package models

import "math"

// ResourceType represents the different resource types in the game
type ResourceType string

const (
	Credits      ResourceType = "credits"
	Knowledge    ResourceType = "knowledge"
	Influence    ResourceType = "influence"
	NuclearTech  ResourceType = "nuclear_tech"
	RawMaterials ResourceType = "raw_materials"
)

// AllResourceTypes returns all resource types in deterministic order
func AllResourceTypes() []ResourceType {
	return []ResourceType{Credits, Knowledge, Influence, NuclearTech, RawMaterials}
}

// Valid reports whether rt is one of the known resource types
func (rt ResourceType) Valid() bool {
	switch rt {
	case Credits, Knowledge, Influence, NuclearTech, RawMaterials:
		return true
	}
	return false
}

// Resources is a fixed record of resource quantities (no maps).
// Values are logically non-negative; callers must not spend below zero.
type Resources struct {
	Credits      float64 `json:"credits" toml:"credits"`
	Knowledge    float64 `json:"knowledge" toml:"knowledge"`
	Influence    float64 `json:"influence" toml:"influence"`
	NuclearTech  float64 `json:"nuclear_tech" toml:"nuclear_tech"`
	RawMaterials float64 `json:"raw_materials" toml:"raw_materials"`
}

// Get returns the quantity for a specific resource type
func (r Resources) Get(rt ResourceType) float64 {
	switch rt {
	case Credits:
		return r.Credits
	case Knowledge:
		return r.Knowledge
	case Influence:
		return r.Influence
	case NuclearTech:
		return r.NuclearTech
	case RawMaterials:
		return r.RawMaterials
	}
	return 0
}

// Set sets the quantity for a specific resource type
func (r *Resources) Set(rt ResourceType, v float64) {
	switch rt {
	case Credits:
		r.Credits = v
	case Knowledge:
		r.Knowledge = v
	case Influence:
		r.Influence = v
	case NuclearTech:
		r.NuclearTech = v
	case RawMaterials:
		r.RawMaterials = v
	}
}

// Each iterates over all resources in deterministic order
func (r Resources) Each(fn func(ResourceType, float64)) {
	fn(Credits, r.Credits)
	fn(Knowledge, r.Knowledge)
	fn(Influence, r.Influence)
	fn(NuclearTech, r.NuclearTech)
	fn(RawMaterials, r.RawMaterials)
}

// EachNonZero iterates over resources with non-zero quantities
func (r Resources) EachNonZero(fn func(ResourceType, float64)) {
	r.Each(func(rt ResourceType, v float64) {
		if v != 0 {
			fn(rt, v)
		}
	})
}

// Add returns r + o
func (r Resources) Add(o Resources) Resources {
	return Resources{
		Credits:      r.Credits + o.Credits,
		Knowledge:    r.Knowledge + o.Knowledge,
		Influence:    r.Influence + o.Influence,
		NuclearTech:  r.NuclearTech + o.NuclearTech,
		RawMaterials: r.RawMaterials + o.RawMaterials,
	}
}

// Sub returns r - o
func (r Resources) Sub(o Resources) Resources {
	return r.Add(o.Scale(-1))
}

// Scale returns every quantity multiplied by f
func (r Resources) Scale(f float64) Resources {
	return Resources{
		Credits:      r.Credits * f,
		Knowledge:    r.Knowledge * f,
		Influence:    r.Influence * f,
		NuclearTech:  r.NuclearTech * f,
		RawMaterials: r.RawMaterials * f,
	}
}

// IsZero reports whether every quantity is zero
func (r Resources) IsZero() bool {
	return r == Resources{}
}

// Covers reports whether r holds at least cost of every resource
func (r Resources) Covers(cost Resources) bool {
	ok := true
	r.Each(func(rt ResourceType, have float64) {
		if cost.Get(rt) > have {
			ok = false
		}
	})
	return ok
}

// ApproxEqual compares two records within an absolute-or-relative tolerance
func (r Resources) ApproxEqual(o Resources, tol float64) bool {
	ok := true
	r.Each(func(rt ResourceType, v float64) {
		w := o.Get(rt)
		diff := math.Abs(v - w)
		if diff > tol && diff > tol*math.Max(math.Abs(v), math.Abs(w)) {
			ok = false
		}
	})
	return ok
}

// ResourceAmount is a single (resource, amount) pair
type ResourceAmount struct {
	Resource ResourceType `json:"resource"`
	Amount   float64      `json:"amount"`
}
