package ckan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindResource(t *testing.T) {
	resources := []Resource{
		{Name: "25-ward-model-december-2018", URL: "https://x/shape.zip"},
		{Name: "2023-WardProfiles-2011-2021-CensusData", URL: "https://x/first.xlsx"},
		{Name: "2023-wardprofiles-2011-2021-censusdata-export", URL: "https://x/second.xlsx"},
	}

	tests := []struct {
		name      string
		resources []Resource
		substr    string
		wantURL   string
		wantFound bool
	}{
		{"case-insensitive match, first wins", resources, "2023-wardprofiles-2011-2021-censusdata", "https://x/first.xlsx", true},
		{"upper case needle", resources, "CENSUSDATA-EXPORT", "https://x/second.xlsx", true},
		{"no match", resources, "2016-census", "", false},
		{"empty list", nil, "anything", "", false},
		{"unicode simple fold", []Resource{{Name: "ΣΊΣΥΦΟΣ", URL: "u"}}, "σίσυφος", "u", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := FindResource(tt.resources, tt.substr)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantURL, got.URL)
		})
	}
}

func TestFindResource_ListedOrder(t *testing.T) {
	resources := []Resource{
		{Name: "b-census", URL: "b"},
		{Name: "a-census", URL: "a"},
	}

	got, found := FindResource(resources, "census")
	assert.True(t, found)
	assert.Equal(t, "b", got.URL)
}
