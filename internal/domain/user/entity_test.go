package user

import (
	"reflect"
	"testing"
)

func strp(s string) *string { return &s }

func TestMergeIfEmpty_FillsOnlyEmptyFields(t *testing.T) {
	p := Profile{FullName: "Existing Name"}
	ext := ExtractedResumeProfile{
		FullName:           strp("Jane Doe"),
		TargetRole:         strp("Backend"),
		Skills:             []string{"Go", "SQL"},
		LocationPreference: nil,
	}

	updated := MergeIfEmpty(&p, ext)

	if !reflect.DeepEqual(updated, []string{"target_role", "skills"}) {
		t.Fatalf("unexpected updated fields: %v", updated)
	}
	if p.FullName != "Existing Name" {
		t.Fatalf("full name overwritten: %s", p.FullName)
	}
	if p.TargetRole != "Backend" || len(p.Skills) != 2 {
		t.Fatalf("profile not merged: %+v", p)
	}
}

func TestMergeIfEmpty_Nil(t *testing.T) {
	if got := MergeIfEmpty(nil, ExtractedResumeProfile{}); len(got) != 0 {
		t.Fatalf("expected nothing updated, got %v", got)
	}
}
