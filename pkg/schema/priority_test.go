package schema

import (
	"reflect"
	"testing"

	"github.com/matzehuels/ldgraph/pkg/graph"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  IdentityPriority
	}{
		{"Empty", nil, DefaultPriority},
		{"Order", []string{"person", "publisher"}, IdentityPriority{RolePerson, RolePublisher}},
		{"Alias", []string{"Organization"}, IdentityPriority{RoleOrganisation}},
		{"SkipsUnknownAndRepeats", []string{"brand", "person", "PERSON"}, IdentityPriority{RolePerson}},
		{"AllUnknown", []string{"brand"}, DefaultPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePriority(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePriority(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	org := graph.RefTo("https://x.test/#organization")
	person := graph.RefTo("https://x.test/#person")
	ents := &Entities{Map: map[string]*Entity{
		KeyOrganization: {Node: graph.New("Organization", org.ID), Ref: org},
		KeyPublisher:    {Ref: person},
	}}

	tests := []struct {
		name     string
		priority IdentityPriority
		want     graph.Ref
		wantOK   bool
	}{
		{"FirstMissingFallsThrough", IdentityPriority{RolePerson, RoleOrganisation}, org, true},
		{"PlaceholderCounts", IdentityPriority{RolePublisher, RoleOrganisation}, person, true},
		{"NothingResolves", IdentityPriority{RolePerson}, graph.Ref{}, false},
		{"EmptyPriority", nil, graph.Ref{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.priority.Resolve(ents)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Resolve = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveNilEntities(t *testing.T) {
	if _, ok := DefaultPriority.Resolve(nil); ok {
		t.Error("nil entities should not resolve")
	}
}
