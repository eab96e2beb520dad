package types

// Completion-type codes reported by the metadata harvester, index-aligned
// with PackageInformation.Exports. The values are part of the harvester
// protocol and must not be renumbered.
const (
	CompletionUnknown = iota
	CompletionVector
	CompletionList
	CompletionEnvironment
	CompletionDataFrame
	CompletionFunction
	CompletionS4Class
	CompletionS4Object
	CompletionDataset
)

// PackageInformation holds the completion metadata for one package. It is
// the unit written to and read from the index; a later refresh replaces the
// whole record, never individual fields.
type PackageInformation struct {
	Package      string
	Exports      []string
	Types        []int
	FunctionInfo map[string]FunctionInformation
}

// NewPackageInformation returns an empty record for the named package.
// All collections are allocated so an empty placeholder is distinguishable
// from an absent entry but never nil.
func NewPackageInformation(name string) PackageInformation {
	return PackageInformation{
		Package:      name,
		Exports:      []string{},
		Types:        []int{},
		FunctionInfo: map[string]FunctionInformation{},
	}
}

// IsEmpty reports whether the record carries no harvested metadata, i.e. it
// is a placeholder written for a package whose refresh produced nothing.
func (p *PackageInformation) IsEmpty() bool {
	return len(p.Exports) == 0 && len(p.Types) == 0 && len(p.FunctionInfo) == 0
}
