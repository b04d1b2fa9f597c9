package tag

// FacetInfo is display metadata for a known facet. It exists only for
// presentation (CLI output, API facet listing); matching never consults it,
// so tags with facets outside this table behave exactly like known ones.
type FacetInfo struct {
	Name  string
	Label string
}

// KnownFacets maps the UI-suggested facets to their display labels.
var KnownFacets = map[string]FacetInfo{
	FacetDemographic:   {Name: FacetDemographic, Label: "Demographics"},
	FacetGeographic:    {Name: FacetGeographic, Label: "Geography"},
	FacetPsychographic: {Name: FacetPsychographic, Label: "Psychographics"},
	FacetBusiness:      {Name: FacetBusiness, Label: "Business"},
	FacetContext:       {Name: FacetContext, Label: "Context"},
	FacetCustom:        {Name: FacetCustom, Label: "Custom"},
}

// FacetLabel returns the display label for a facet, falling back to the
// "custom" label for unknown facets.
func FacetLabel(facet string) string {
	if info, ok := KnownFacets[facet]; ok {
		return info.Label
	}
	return KnownFacets[FacetCustom].Label
}
