package corevk

import "fmt"

// Usage is the escape hatch for forward-compatible vendor tuning knobs that
// Options does not yet give a typed field to, grounded on the teacher's
// usage.go tree ("corresponds to JSON object notation... extendable").
type Usage struct {
	Name         string
	StringProps  map[string]string
	IntProps     map[string]int
	BoolProps    map[string]bool
	FloatProps   map[string]float32
	LinkedUsage  *Usage
}

func NewUsage(name string) *Usage {
	return &Usage{
		Name:        name,
		StringProps: map[string]string{},
		IntProps:    map[string]int{},
		BoolProps:   map[string]bool{},
		FloatProps:  map[string]float32{},
	}
}

func (u *Usage) HasNext() bool { return u.LinkedUsage != nil }

func (u *Usage) Next() (*Usage, error) {
	if !u.HasNext() {
		return nil, fmt.Errorf("corevk: usage %q has no linked usage", u.Name)
	}
	return u.LinkedUsage, nil
}
