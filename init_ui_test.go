package main

import "testing"

func TestValidateJobs(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"", true},
		{"1", true},
		{" 8 ", true},
		{"0", false},
		{"-2", false},
		{"many", false},
	}
	for _, tc := range cases {
		err := validateJobs(tc.value)
		if tc.ok && err != nil {
			t.Fatalf("validateJobs(%q) = %v, want nil", tc.value, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("validateJobs(%q) = nil, want error", tc.value)
		}
	}
}

func TestNewInitForm_Constructs(t *testing.T) {
	remote := defaultRemoteName
	root := ""
	fetch := true
	jobs := ""
	if form := newInitForm(&remote, &root, &fetch, &jobs); form == nil {
		t.Fatalf("expected form")
	}
}
