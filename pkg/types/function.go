package types

// FunctionInformation describes one function exported by a package.
type FunctionInformation struct {
	Name        string
	PackageName string

	// PerformsNse marks functions that may evaluate their arguments
	// non-literally. Defaults to false when the harvester omits it.
	PerformsNse bool

	// IsPrimitive is always false for harvested functions; no harvester
	// data path currently supplies it.
	IsPrimitive bool

	// Formals are kept in the order they were decoded from the harvester
	// output. Order carries no downstream meaning.
	Formals []FormalInformation
}

// NewFunctionInformation returns a FunctionInformation for the named
// function in the named package.
func NewFunctionInformation(name, packageName string) FunctionInformation {
	return FunctionInformation{
		Name:        name,
		PackageName: packageName,
	}
}

// AddFormal appends a formal to the function's formal list.
func (f *FunctionInformation) AddFormal(formal FormalInformation) {
	f.Formals = append(f.Formals, formal)
}

// FormalInformation describes one declared parameter of a function.
type FormalInformation struct {
	Name               string
	IsUsed             bool
	HasDefaultValue    bool
	MissingnessHandled bool
}

// NewFormalInformation returns a FormalInformation with the protocol's
// default flags: not used, has a default value, missingness handled. The
// asymmetric defaults are a carried-over harvester convention; do not
// "fix" them.
func NewFormalInformation(name string) FormalInformation {
	return FormalInformation{
		Name:               name,
		IsUsed:             false,
		HasDefaultValue:    true,
		MissingnessHandled: true,
	}
}
