package traits

// ResourceDependencyKind discriminates the ResourceDependency variant.
type ResourceDependencyKind uint8

const (
	// ResourceAbsent means no dependency data is known for the resource.
	ResourceAbsent ResourceDependencyKind = iota
	// ResourceNumeric means the dependency is a measured ratio in [0, 1].
	ResourceNumeric
	// ResourceDescribed means only a textual description is available.
	ResourceDescribed
)

// ResourceDependency is a tagged variant for externally sourced resource
// dependency data: a numeric ratio, a free-text description, or nothing.
// Consumers switch on Kind instead of probing for optional fields.
type ResourceDependency struct {
	Kind        ResourceDependencyKind `json:"kind" yaml:"kind"`
	Ratio       float64                `json:"ratio,omitempty" yaml:"ratio,omitempty"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
}

// NumericDependency builds a measured dependency, clamping the ratio.
func NumericDependency(ratio float64) ResourceDependency {
	return ResourceDependency{Kind: ResourceNumeric, Ratio: Clamp(ratio)}
}

// DescribedDependency builds a text-only dependency.
func DescribedDependency(desc string) ResourceDependency {
	return ResourceDependency{Kind: ResourceDescribed, Description: desc}
}

// AbsentDependency builds the empty variant.
func AbsentDependency() ResourceDependency {
	return ResourceDependency{Kind: ResourceAbsent}
}

// NumericOr returns the measured ratio, or fallback for the non-numeric arms.
func (r ResourceDependency) NumericOr(fallback float64) float64 {
	if r.Kind == ResourceNumeric {
		return r.Ratio
	}
	return fallback
}
