package dto

import (
	"reflect"
	"testing"
)

func ptr(v int) *int { return &v }

func TestSubmissionKeepsAnimalPositions(t *testing.T) {
	cases := []struct {
		name string
		req  PlaceBetRequest
		want []int
	}{
		{"none", PlaceBetRequest{}, nil},
		{"first only", PlaceBetRequest{AnimalID: ptr(5)}, []int{5}},
		{"in order", PlaceBetRequest{AnimalID: ptr(3), AnimalID2: ptr(7), AnimalID3: ptr(25)}, []int{3, 7, 25}},
		{"gap in second", PlaceBetRequest{AnimalID: ptr(3), AnimalID3: ptr(7)}, []int{3, 0, 7}},
		{"only second", PlaceBetRequest{AnimalID2: ptr(9)}, []int{0, 9}},
		{"only fifth", PlaceBetRequest{AnimalID5: ptr(1)}, []int{0, 0, 0, 0, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.req.Submission().Animals; !reflect.DeepEqual(got, tc.want) {
				t.Errorf("animals = %v, want %v", got, tc.want)
			}
		})
	}
}
