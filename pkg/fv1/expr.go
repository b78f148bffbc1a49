package fv1

import (
	"fmt"
	"math"
)

// expression parses an operand expression. Operators bind like Python:
//
//	|  ^  &  << >>  + -  * / //  unary - + ~  **
//
// Problems are reported and evaluate to zero so that parsing can continue.
func (a *Assembler) expression() Value {
	return a.binary(0)
}

var precedence = [][]string{
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "//"},
}

func (a *Assembler) isOperator(ops ...string) (string, bool) {
	if a.sym.Kind != Operator {
		return "", false
	}
	for _, op := range ops {
		if a.sym.Name == op {
			return op, true
		}
	}
	return "", false
}

func (a *Assembler) binary(level int) Value {
	if level == len(precedence) {
		return a.unary()
	}

	left := a.binary(level + 1)
	for {
		op, ok := a.isOperator(precedence[level]...)
		if !ok {
			return left
		}
		a.advance()
		right := a.binary(level + 1)
		left = a.apply(op, left, right)
	}
}

func (a *Assembler) unary() Value {
	op, ok := a.isOperator("-", "+", "~")
	if !ok {
		return a.power()
	}
	a.advance()
	v := a.unary()

	switch op {
	case "-":
		if v.IsReal() {
			return Real(-v.Float())
		}
		return Int(-v.Int())
	case "~":
		if v.IsReal() {
			a.parseError("Integer operand required for ~")
			return Int(0)
		}
		return Int(^v.Int())
	}
	return v
}

func (a *Assembler) power() Value {
	base := a.atom()
	if _, ok := a.isOperator("**"); !ok {
		return base
	}
	a.advance()
	exp := a.unary()
	return a.apply("**", base, exp)
}

func (a *Assembler) atom() Value {
	sym := a.sym
	switch sym.Kind {
	case Integer, Float:
		a.advance()
		return sym.Value
	case Label:
		v, ok := a.symbols[sym.Name]
		if !ok {
			a.parseError(fmt.Sprintf("Undefined label %s", sym.Text))
			v = Int(0)
		}
		a.advance()
		return v
	case Operator:
		if sym.Name == "(" {
			a.advance()
			v := a.expression()
			if _, ok := a.isOperator(")"); !ok {
				a.parseError(fmt.Sprintf("Expected ) but got %s", a.sym))
				return v
			}
			a.advance()
			return v
		}
	}

	a.parseError(fmt.Sprintf("Expected value but got %s", sym))
	return Int(0)
}

func (a *Assembler) apply(op string, l, r Value) Value {
	isReal := l.IsReal() || r.IsReal()

	switch op {
	case "+":
		if isReal {
			return Real(l.Float() + r.Float())
		}
		return Int(l.Int() + r.Int())
	case "-":
		if isReal {
			return Real(l.Float() - r.Float())
		}
		return Int(l.Int() - r.Int())
	case "*":
		if isReal {
			return Real(l.Float() * r.Float())
		}
		return Int(l.Int() * r.Int())
	case "/":
		if r.Float() == 0 {
			a.parseError("Division by zero")
			return Int(0)
		}
		return Real(l.Float() / r.Float())
	case "//":
		if r.Float() == 0 {
			a.parseError("Division by zero")
			return Int(0)
		}
		if isReal {
			return Real(math.Floor(l.Float() / r.Float()))
		}
		q := l.Int() / r.Int()
		if (l.Int()%r.Int() != 0) && ((l.Int() < 0) != (r.Int() < 0)) {
			q--
		}
		return Int(q)
	case "**":
		if isReal || r.Int() < 0 || r.Int() > 63 {
			return Real(math.Pow(l.Float(), r.Float()))
		}
		result := int64(1)
		for i := int64(0); i < r.Int(); i++ {
			result *= l.Int()
		}
		return Int(result)
	}

	if isReal {
		a.parseError(fmt.Sprintf("Integer operands required for %s", op))
		return Int(0)
	}

	switch op {
	case "|":
		return Int(l.Int() | r.Int())
	case "^":
		return Int(l.Int() ^ r.Int())
	case "&":
		return Int(l.Int() & r.Int())
	case "<<", ">>":
		if r.Int() < 0 || r.Int() > 63 {
			a.parseError(fmt.Sprintf("Invalid shift count %d", r.Int()))
			return Int(0)
		}
		if op == "<<" {
			return Int(l.Int() << uint(r.Int()))
		}
		return Int(l.Int() >> uint(r.Int()))
	}

	a.parseError(fmt.Sprintf("Unknown operator %s", op))
	return Int(0)
}
