package dao

// Parameter narrows a List call to entities whose named attribute matches
// Value, or any of the values when Value holds several.
type Parameter struct {
	Name  string
	Value interface{}
}

func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}

// Matches reports whether actual equals the parameter value or one of its
// values.
func (p *Parameter) Matches(actual string) bool {
	switch v := p.Value.(type) {
	case string:
		return v == actual
	case []string:
		for _, candidate := range v {
			if candidate == actual {
				return true
			}
		}
	}
	return false
}
