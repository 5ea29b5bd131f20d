package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/creachadair/mds/mapset"
	"github.com/danderson/markup"
	"github.com/danderson/markup/attr"
	"sigs.k8s.io/yaml"
)

// document is a flattened workflow document: the names of its
// activities, and the raw attribute values of their properties.
type document struct {
	Activities []string   `json:"activities"`
	Properties []property `json:"properties"`
}

type property struct {
	Path  string `json:"path"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

func readDocument(path string) (*document, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := yaml.Unmarshal(bs, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}

// Binding is a resolved reference to an activity of the document.
type Binding struct {
	Activity string
	Path     string `json:",omitempty"`
}

var bindingType = reflect.TypeFor[Binding]()

// resolver returns a resolver for {wf:ActivityBind Name[, Path=P]}
// references to the document's activities.
func (d *document) resolver() markup.Resolver {
	acts := mapset.New(d.Activities...)
	return markup.ResolverFunc(func(ctx context.Context, ref markup.Reference, t reflect.Type) (any, bool, error) {
		if ref.Name() != "wf:ActivityBind" {
			return nil, false, nil
		}
		if !bindingType.AssignableTo(t) {
			return nil, false, fmt.Errorf("activity binding is not a valid %s", t)
		}

		var b Binding
		if name, ok := ref.Named("Name"); ok {
			b.Activity = name
		} else if ref.NumArgs() > 0 {
			if _, _, named := attr.SplitAssignment(ref.Extension.Args[0]); !named {
				b.Activity = ref.ArgText(0)
			}
		}
		b.Path, _ = ref.Named("Path")

		if b.Activity == "" {
			return nil, false, errors.New("activity binding has no activity name")
		}
		if !acts.Has(b.Activity) {
			return nil, false, fmt.Errorf("no activity named %q", b.Activity)
		}
		return b, true, nil
	})
}

// report renders the outcome of a check as YAML.
func report(props []property, errs markup.ErrorList) ([]byte, error) {
	type failure struct {
		Path    string `json:"path"`
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}
	ret := struct {
		Checked  int       `json:"checked"`
		Failures []failure `json:"failures,omitempty"`
	}{Checked: len(props)}
	for _, e := range errs {
		ret.Failures = append(ret.Failures, failure{e.Path, e.Kind.String(), e.Error()})
	}
	return yaml.Marshal(ret)
}
