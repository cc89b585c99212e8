package viewer

// Enablement carries one flag per dataset-gated menu command. File open and
// close are always enabled and have no flag here.
type Enablement struct {
	AttributeTable   bool
	ProjectionInfo   bool
	SwitchProjection bool
	Clip             bool
	LabelFeatures    bool
}

// EnablementFor is the single policy mapping holder state to command
// availability: every gated command is enabled exactly when a dataset is
// loaded. It must be re-evaluated after every holder mutation; the result
// is never cached across mutations.
func EnablementFor(hasDataset bool) Enablement {
	return Enablement{
		AttributeTable:   hasDataset,
		ProjectionInfo:   hasDataset,
		SwitchProjection: hasDataset,
		Clip:             hasDataset,
		LabelFeatures:    hasDataset,
	}
}
