package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// Attributes whose values name other computations.
var calledComputationKeys = map[string]bool{
	"to_apply":            true,
	"calls":               true,
	"condition":           true,
	"body":                true,
	"branch_computations": true,
}

// Verify checks the structural invariants of a module and reports every violation.
func (m *Module) Verify() error {
	var errs []error

	if err := checkName("module", m.Name); err != nil {
		errs = append(errs, err)
	}

	errs = append(errs, checkAttributeKeys("module", m.Attributes)...)

	if len(m.Computations) == 0 {
		return errors.Join(append(errs, errors.New("module has no computations"))...)
	}

	names := lo.Map(m.Computations, func(c *Computation, _ int) string { return c.Name })
	for _, dup := range lo.FindDuplicates(names) {
		errs = append(errs, fmt.Errorf("duplicate computation %q", dup))
	}

	if m.Entry() == nil {
		errs = append(errs, fmt.Errorf("entry computation %q not found", m.EntryComputation))
	}

	for _, c := range m.Computations {
		errs = append(errs, m.verifyComputation(c)...)
	}

	return errors.Join(errs...)
}

func (m *Module) verifyComputation(c *Computation) []error {
	var errs []error

	if err := checkLocalName("computation", c.Name); err != nil {
		errs = append(errs, err)
	}

	if len(c.Instructions) == 0 {
		return append(errs, fmt.Errorf("computation %q has no instructions", c.Name))
	}

	names := lo.Map(c.Instructions, func(inst *Instruction, _ int) string { return inst.Name })
	for _, dup := range lo.FindDuplicates(names) {
		errs = append(errs, fmt.Errorf("computation %q: duplicate instruction %q", c.Name, dup))
	}

	if c.Instruction(c.Root) == nil {
		errs = append(errs, fmt.Errorf("computation %q: root instruction %q not found", c.Name, c.Root))
	}

	params := make(map[int64]string)

	for _, inst := range c.Instructions {
		where := fmt.Sprintf("computation %q, instruction %q", c.Name, inst.Name)

		if err := checkLocalName("instruction", inst.Name); err != nil {
			errs = append(errs, fmt.Errorf("computation %q: %w", c.Name, err))
		}

		errs = append(errs, checkAttributeKeys(where, inst.Attributes)...)

		if err := inst.Shape.verify(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}

		for _, op := range inst.Operands {
			if !lo.Contains(names, op) {
				errs = append(errs, fmt.Errorf("%s: unknown operand %q", where, op))
			}
		}

		if (inst.Opcode == OpcodeParameter || inst.Opcode == OpcodeConstant) && len(inst.Operands) > 0 {
			errs = append(errs, fmt.Errorf("%s: %s cannot have operands", where, inst.Opcode))
		}

		if inst.Opcode == OpcodeParameter {
			if other, ok := params[inst.ParameterNumber]; ok {
				errs = append(errs, fmt.Errorf("%s: parameter number %d already used by %q", where, inst.ParameterNumber, other))
			}

			params[inst.ParameterNumber] = inst.Name
		}

		for _, attr := range inst.Attributes {
			if !calledComputationKeys[attr.Key] {
				continue
			}

			for _, callee := range CalledComputations(attr.Value) {
				if m.Computation(callee) == nil {
					errs = append(errs, fmt.Errorf("%s: %s references unknown computation %q", where, attr.Key, callee))
				}
			}
		}
	}

	return errs
}

// checkName rejects names that would not survive a trip through HLO text.
func checkName(kind, name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%s has no name", kind)
	case strings.ContainsAny(name, ",(){}=") || strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return fmt.Errorf("%s name %q contains whitespace or one of ,(){}=", kind, name)
	case strings.Contains(name, "/*") || strings.Contains(name, "//"):
		return fmt.Errorf("%s name %q contains a comment marker", kind, name)
	}

	return nil
}

// checkLocalName applies checkName to computation and instruction names.
// The text form strips a leading '%' from these and reserves ROOT.
func checkLocalName(kind, name string) error {
	if err := checkName(kind, name); err != nil {
		return err
	}

	if strings.HasPrefix(name, "%") {
		return fmt.Errorf("%s name %q starts with '%%'", kind, name)
	}

	if kind == "instruction" && name == "ROOT" {
		return fmt.Errorf("instruction name %q is reserved", name)
	}

	return nil
}

func checkAttributeKeys(where string, attrs []Attribute) []error {
	var errs []error

	for _, attr := range attrs {
		if err := checkName("attribute", attr.Key); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
	}

	return errs
}

func (s Shape) verify() error {
	if !s.ElementType.Valid() {
		return fmt.Errorf("invalid element type %d", s.ElementType)
	}

	if s.IsTuple() {
		for _, e := range s.TupleShapes {
			if err := e.verify(); err != nil {
				return err
			}
		}

		return nil
	}

	if s.Layout != nil && len(s.Layout.MinorToMajor) != s.Rank() {
		return fmt.Errorf("layout %v does not match rank %d", s.Layout.MinorToMajor, s.Rank())
	}

	return nil
}

// CalledComputations splits an attribute value such as "%add" or "{%a, %b}" into computation names.
func CalledComputations(value string) []string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "{")
	value = strings.TrimSuffix(value, "}")

	var names []string

	for _, part := range strings.Split(value, ",") {
		name := strings.TrimPrefix(strings.TrimSpace(part), "%")
		if name != "" {
			names = append(names, name)
		}
	}

	return names
}

// InstructionCount returns the number of instructions across all computations.
func (m *Module) InstructionCount() int {
	return lo.SumBy(m.Computations, func(c *Computation) int { return len(c.Instructions) })
}
