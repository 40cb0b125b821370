package classify

// Classifier labels are namespaced by inspection-target variant so one
// dataset can hold several variants without collisions.

const backgroundClass = "background"

// RegionLabel builds the classifier label for a region under a variant.
func RegionLabel(variant, regionID string) string {
	return variant + "::" + regionID
}

// BackgroundLabel builds the reserved "no object of interest" label for
// a variant.
func BackgroundLabel(variant string) string {
	return variant + "::" + backgroundClass
}
