package encoder

import "fmt"

// symtab is the encoder's own minimal label table: this ISA has no
// branch/jump class and so no relocations or forward-reference patching to
// track, unlike the teacher's parser.SymbolTable. It exists only to assign
// PCs to labels and reject duplicates.
type symtab struct {
	labels map[string]uint32
}

func newSymtab() *symtab {
	return &symtab{labels: make(map[string]uint32)}
}

func (s *symtab) define(name string, pc uint32) error {
	if _, exists := s.labels[name]; exists {
		return fmt.Errorf("duplicate label %q", name)
	}
	s.labels[name] = pc
	return nil
}
