package parser

// FieldID numbers the standardised block parameters, 1 to 40.
type FieldID int

// FieldSet records which parameters are present in a block.
type FieldSet [NumParameters + 1]bool

// AllFields returns the set holding every parameter.
func AllFields() FieldSet {
	var s FieldSet
	for id := 1; id <= NumParameters; id++ {
		s[id] = true
	}
	return s
}

func (s FieldSet) Has(id FieldID) bool {
	return id >= 1 && id <= NumParameters && s[id]
}

// IDs lists the present parameters in ascending order.
func (s FieldSet) IDs() []FieldID {
	ids := make([]FieldID, 0, NumParameters)
	for id := 1; id <= NumParameters; id++ {
		if s[id] {
			ids = append(ids, FieldID(id))
		}
	}
	return ids
}

// ParameterSelector is the file level inclusion/exclusion list. A negative
// Count excludes the listed parameters, a positive one includes exactly
// them and zero keeps all of them.
type ParameterSelector struct {
	Count int
	List  []int
}

// Available returns the parameters present in block blockIndex. The first
// block always carries the full set.
func (p ParameterSelector) Available(blockIndex int) FieldSet {
	if blockIndex == 0 || p.Count == 0 {
		return AllFields()
	}
	if p.Count < 0 {
		s := AllFields()
		for _, id := range p.List {
			if id >= 1 && id <= NumParameters {
				s[id] = false
			}
		}
		return s
	}
	var s FieldSet
	for _, id := range p.List {
		if id >= 1 && id <= NumParameters {
			s[id] = true
		}
	}
	return s
}
