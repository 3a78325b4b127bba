package listing

import "slices"

type TagGroup struct {
	Name string
	Tags []string
}

// Vocabulary is the fixed hashtag taxonomy offered to moderators. Callback data
// refers to tags by their index in AllTags, so entries are only ever appended.
var Vocabulary = []TagGroup{
	{Name: "Transmission", Tags: []string{"#automatic", "#manual", "#robot", "#cvt"}},
	{Name: "Body", Tags: []string{"#sedan", "#hatchback", "#wagon", "#suv", "#coupe", "#minivan", "#pickup"}},
	{Name: "Price", Tags: []string{"#under5k", "#5k_10k", "#10k_20k", "#over20k"}},
	{Name: "Fuel", Tags: []string{"#petrol", "#diesel", "#lpg", "#hybrid", "#electric"}},
}

var allTags = flatten(Vocabulary)

func flatten(groups []TagGroup) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.Tags...)
	}
	return out
}

// AllTags returns the vocabulary in display order.
func AllTags() []string {
	return slices.Clone(allTags)
}

// TagAt resolves a vocabulary index as carried in callback data.
func TagAt(i int) (string, bool) {
	if i < 0 || i >= len(allTags) {
		return "", false
	}
	return allTags[i], true
}

func IsKnownTag(tag string) bool {
	return slices.Contains(allTags, tag)
}

// ToggleTag flips membership of tag in selection. Added tags go to the end;
// removal keeps the relative order of the others. The input slice is not modified.
func ToggleTag(selection []string, tag string) []string {
	if i := slices.Index(selection, tag); i >= 0 {
		return slices.Delete(slices.Clone(selection), i, i+1)
	}
	return append(slices.Clone(selection), tag)
}
