// Package hlotext parses HLO modules from their text form.
package hlotext

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
)

const (
	moduleKeyword = "HloModule"
	entryKeyword  = "ENTRY "
	rootKeyword   = "ROOT "
)

// Parse parses HLO text into a module.
func Parse(data []byte) (*domain.Module, error) {
	p := &parser{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)

	for scanner.Scan() {
		p.lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		line, err := stripComments(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", p.lineNo, err)
		}

		if line = strings.TrimSpace(line); line == "" {
			continue
		}

		if err := p.parseLine(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", p.lineNo, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read HLO text: %w", err)
	}

	return p.finish()
}

type parser struct {
	lineNo  int
	module  *domain.Module
	current *domain.Computation
	entry   string
}

func (p *parser) parseLine(line string) error {
	switch {
	case p.module == nil:
		return p.parseHeader(line)
	case p.current == nil:
		return p.parseComputationStart(line)
	case line == "}":
		if p.current.Root == "" && len(p.current.Instructions) > 0 {
			p.current.Root = p.current.Instructions[len(p.current.Instructions)-1].Name
		}

		p.module.Computations = append(p.module.Computations, p.current)
		p.current = nil

		return nil
	default:
		return p.parseInstruction(line)
	}
}

func (p *parser) parseHeader(line string) error {
	rest, ok := strings.CutPrefix(line, moduleKeyword)
	if !ok || (rest != "" && rest[0] != ' ') {
		return fmt.Errorf("expected %q header, got %q", moduleKeyword, line)
	}

	rest = strings.TrimSpace(rest)

	end := strings.IndexAny(rest, ", \t")
	if end < 0 {
		end = len(rest)
	}

	name := rest[:end]
	if name == "" {
		return fmt.Errorf("missing module name")
	}

	attrs, err := parseAttributes(rest[end:])
	if err != nil {
		return err
	}

	p.module = &domain.Module{Name: name, Attributes: attrs}

	return nil
}

func (p *parser) parseComputationStart(line string) error {
	header, ok := strings.CutSuffix(line, "{")
	if !ok {
		return fmt.Errorf("expected computation header, got %q", line)
	}

	header = strings.TrimSpace(header)

	isEntry := false
	if rest, ok := strings.CutPrefix(header, entryKeyword); ok {
		isEntry = true
		header = strings.TrimSpace(rest)
	}

	// The name ends at whitespace or at an inline signature.
	end := strings.IndexAny(header, " \t(")
	if end < 0 {
		end = len(header)
	}

	name := strings.TrimPrefix(header[:end], "%")
	if name == "" {
		return fmt.Errorf("missing computation name")
	}

	if isEntry {
		if p.entry != "" {
			return fmt.Errorf("multiple ENTRY computations: %q and %q", p.entry, name)
		}

		p.entry = name
	}

	p.current = &domain.Computation{Name: name}

	return nil
}

func (p *parser) parseInstruction(line string) error {
	isRoot := false
	if rest, ok := strings.CutPrefix(line, rootKeyword); ok {
		isRoot = true
		line = strings.TrimSpace(rest)
	}

	lhs, rhs, ok := strings.Cut(line, " = ")
	if !ok {
		return fmt.Errorf("expected \"<name> = <shape> <opcode>(...)\", got %q", line)
	}

	inst := &domain.Instruction{Name: strings.TrimPrefix(strings.TrimSpace(lhs), "%")}
	if inst.Name == "" {
		return fmt.Errorf("missing instruction name")
	}

	sp := &shapeParser{s: rhs}

	shape, err := sp.parse()
	if err != nil {
		return fmt.Errorf("instruction %q: %w", inst.Name, err)
	}

	inst.Shape = shape
	rest := strings.TrimSpace(rhs[sp.pos:])

	open := strings.IndexByte(rest, '(')
	if open <= 0 {
		return fmt.Errorf("instruction %q: missing opcode", inst.Name)
	}

	inst.Opcode = rest[:open]
	if !isOpcode(inst.Opcode) {
		return fmt.Errorf("instruction %q: invalid opcode %q", inst.Name, inst.Opcode)
	}

	closeIdx, err := matchingClose(rest, open)
	if err != nil {
		return fmt.Errorf("instruction %q: %w", inst.Name, err)
	}

	if err := parseArguments(inst, strings.TrimSpace(rest[open+1:closeIdx])); err != nil {
		return fmt.Errorf("instruction %q: %w", inst.Name, err)
	}

	if inst.Attributes, err = parseAttributes(rest[closeIdx+1:]); err != nil {
		return fmt.Errorf("instruction %q: %w", inst.Name, err)
	}

	if isRoot {
		if p.current.Root != "" {
			return fmt.Errorf("computation %q has multiple ROOT instructions", p.current.Name)
		}

		p.current.Root = inst.Name
	}

	p.current.Instructions = append(p.current.Instructions, inst)

	return nil
}

func (p *parser) finish() (*domain.Module, error) {
	if p.module == nil {
		return nil, fmt.Errorf("missing %q header", moduleKeyword)
	}

	if p.current != nil {
		return nil, fmt.Errorf("computation %q is not closed", p.current.Name)
	}

	switch {
	case p.entry != "":
		p.module.EntryComputation = p.entry
	case len(p.module.Computations) > 0:
		p.module.EntryComputation = p.module.Computations[len(p.module.Computations)-1].Name
	}

	return p.module, nil
}

func parseArguments(inst *domain.Instruction, args string) error {
	switch inst.Opcode {
	case domain.OpcodeParameter:
		n, err := strconv.ParseInt(args, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid parameter number %q", args)
		}

		inst.ParameterNumber = n
	case domain.OpcodeConstant:
		inst.Literal = args
	default:
		if args == "" {
			return nil
		}

		parts, err := splitTopLevel(args)
		if err != nil {
			return err
		}

		for _, part := range parts {
			// Long form operands carry their shape: "f32[2]{0} %p0".
			fields := strings.Fields(part)
			if len(fields) == 0 {
				return fmt.Errorf("empty operand in %q", args)
			}

			inst.Operands = append(inst.Operands, strings.TrimPrefix(fields[len(fields)-1], "%"))
		}
	}

	return nil
}

// parseAttributes parses a trailing ", key=value, key=value" list.
func parseAttributes(s string) ([]domain.Attribute, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	rest, ok := strings.CutPrefix(s, ",")
	if !ok {
		return nil, fmt.Errorf("unexpected %q after instruction", s)
	}

	parts, err := splitTopLevel(rest)
	if err != nil {
		return nil, err
	}

	attrs := make([]domain.Attribute, 0, len(parts))

	for _, part := range parts {
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)

		if !ok || key == "" {
			return nil, fmt.Errorf("invalid attribute %q", strings.TrimSpace(part))
		}

		attrs = append(attrs, domain.Attribute{Key: key, Value: strings.TrimSpace(value)})
	}

	return attrs, nil
}

func isOpcode(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-' || c == '_') {
			return false
		}
	}

	return s != ""
}
