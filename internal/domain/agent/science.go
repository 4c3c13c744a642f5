package agent

// ScienceModule is an instrument installed on a scientist. Each analysis adds
// its bonus to the reported value and every action or move pays its cost.
type ScienceModule struct {
	Name         string
	ScienceBonus uint
	EnergyCost   uint
}

// DefaultScienceModules is the stock scientist loadout
func DefaultScienceModules() []ScienceModule {
	return []ScienceModule{
		{Name: "spectrometer", ScienceBonus: 5, EnergyCost: 1},
		{Name: "core-drill", ScienceBonus: 10, EnergyCost: 2},
	}
}

// Modules is an installed loadout
type Modules []ScienceModule

// TotalBonus sums the science bonus of every module
func (m Modules) TotalBonus() uint {
	var total uint
	for _, mod := range m {
		total += mod.ScienceBonus
	}
	return total
}

// PassiveCost sums the per-action energy cost of every module
func (m Modules) PassiveCost() uint {
	var total uint
	for _, mod := range m {
		total += mod.EnergyCost
	}
	return total
}

// Names lists module names in install order
func (m Modules) Names() []string {
	names := make([]string, len(m))
	for i, mod := range m {
		names[i] = mod.Name
	}
	return names
}
