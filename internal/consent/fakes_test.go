package consent

import (
	"regexp"
	"time"
)

// fakeElement is an in-memory Element for engine tests.
type fakeElement struct {
	text     string
	visible  bool
	textErr  error
	clickErr error
	clicks   int
}

func (f *fakeElement) Visible(time.Duration) bool { return f.visible }

func (f *fakeElement) Text(time.Duration) (string, error) { return f.text, f.textErr }

func (f *fakeElement) Click(time.Duration) error {
	if f.clickErr != nil {
		return f.clickErr
	}
	f.clicks++
	return nil
}

// missingElement mimics a selector handle that resolved to nothing.
type missingElement struct{}

func (missingElement) Visible(time.Duration) bool         { return false }
func (missingElement) Text(time.Duration) (string, error) { return "", nil }
func (missingElement) Click(time.Duration) error          { return nil }

// fakeContext is an in-memory DocumentContext.
type fakeContext struct {
	name        string
	controls    []*fakeElement
	queryErr    error
	selectors   map[string]*fakeElement
	roleHits    map[string][]*fakeElement
	within      map[string][]*fakeElement // keyed container + "|" + role
	snapshot    any
	snapshotErr error
}

func (f *fakeContext) Name() string { return f.name }

func (f *fakeContext) QueryAll(selector string) ([]Element, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if selector != InteractiveControls {
		return nil, nil
	}
	out := make([]Element, len(f.controls))
	for i, el := range f.controls {
		out[i] = el
	}
	return out, nil
}

func (f *fakeContext) BySelector(selector string) Element {
	if el, ok := f.selectors[selector]; ok && el != nil {
		return el
	}
	return missingElement{}
}

func (f *fakeContext) ByRole(role string, name *regexp.Regexp) Element {
	for _, el := range f.roleHits[role] {
		if el != nil && name.MatchString(el.text) {
			return el
		}
	}
	return nil
}

func (f *fakeContext) ByRoleWithin(container, role string, name *regexp.Regexp) Element {
	for _, el := range f.within[container+"|"+role] {
		if el != nil && name.MatchString(el.text) {
			return el
		}
	}
	return nil
}

func (f *fakeContext) Evaluate(string) (any, error) { return f.snapshot, f.snapshotErr }

// fakePage is an in-memory Page with optional frames.
type fakePage struct {
	fakeContext
	url    string
	frames []*fakeContext
}

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) Frames() []DocumentContext {
	out := make([]DocumentContext, len(p.frames))
	for i, f := range p.frames {
		out[i] = f
	}
	return out
}

func mustKeywordSet(t interface{ Fatalf(string, ...any) }, words ...string) *KeywordSet {
	set, err := NewKeywordSet(words)
	if err != nil {
		t.Fatalf("building keyword set: %v", err)
	}
	return set
}
