package models

import "strings"

// TagPair is one resource tag.
type TagPair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NCRTags is the tag set of one finding's resource (GET /ncr/{id}/tags).
type NCRTags struct {
	NCRID string    `json:"ncrId"`
	Tags  []TagPair `json:"tags"`
}

// Joined renders the tag set as space-separated name:value pairs.
func (t NCRTags) Joined() string {
	parts := make([]string, 0, len(t.Tags))
	for _, pair := range t.Tags {
		parts = append(parts, pair.Name+":"+pair.Value)
	}
	return strings.Join(parts, " ")
}
