package fonts

import "maps"

// Usage reports how the logical fonts were resolved during initialization.
type Usage struct {
	Loaded       []string          `json:"loaded"`
	FallbackUsed map[string]string `json:"fallbackUsed"` // logical name -> substitute
	Missing      []string          `json:"missing"`
	Sources      map[string]string `json:"sources,omitempty"` // logical name -> file it was loaded from
	Degradations []Degradation     `json:"degradations,omitempty"`
}

// Degradation records why a logical font fell back.
type Degradation struct {
	Name     string `json:"name"`
	Fallback string `json:"fallback"`
	Reason   string `json:"reason"`
}

// IsLoaded reports whether name was loaded from its own source.
func (u Usage) IsLoaded(name string) bool {
	for _, n := range u.Loaded {
		if n == name {
			return true
		}
	}
	return false
}

func (u Usage) clone() Usage {
	return Usage{
		Loaded:       append([]string{}, u.Loaded...),
		FallbackUsed: maps.Clone(u.FallbackUsed),
		Missing:      append([]string{}, u.Missing...),
		Sources:      maps.Clone(u.Sources),
		Degradations: append([]Degradation(nil), u.Degradations...),
	}
}
