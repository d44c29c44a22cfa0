package pointer

import (
	"fmt"

	"github.com/rainoftime/crab/internal/interval"
	"github.com/rainoftime/crab/internal/ir"
)

// Object identifies an allocation site, matching ir.PtrNew.Object.
type Object string

// RefKind is the closed set of reference shapes a constraint's ref
// operand may take (spec.md §4.11: "pointer+offset, object+offset,
// function id, parameter-of(function), return-of(function)").
type RefKind int

const (
	RefPointer RefKind = iota
	RefObject
	RefFunc
	RefParam
	RefReturn
)

func (k RefKind) String() string {
	switch k {
	case RefPointer:
		return "pointer"
	case RefObject:
		return "object"
	case RefFunc:
		return "func"
	case RefParam:
		return "param"
	case RefReturn:
		return "return"
	default:
		return "?"
	}
}

// Ref is one operand of a points-to constraint.
type Ref struct {
	Kind   RefKind
	Var    ir.Var            // RefPointer
	Object Object            // RefObject
	Func   string            // RefFunc, RefParam, RefReturn
	Param  int               // RefParam
	Offset interval.Interval // additional offset, meaningful for RefPointer/RefObject
}

func (r Ref) String() string {
	switch r.Kind {
	case RefPointer:
		return fmt.Sprintf("%s+%s", r.Var, r.Offset)
	case RefObject:
		return fmt.Sprintf("&%s+%s", r.Object, r.Offset)
	case RefFunc:
		return fmt.Sprintf("func(%s)", r.Func)
	case RefParam:
		return fmt.Sprintf("param(%s,%d)", r.Func, r.Param)
	case RefReturn:
		return fmt.Sprintf("return(%s)", r.Func)
	default:
		return "?"
	}
}

// derefable reports whether this ref may stand as the target of a
// store or load. RefObject and RefFunc denote a fixed literal identity
// rather than a variable slot; dereferencing one is a programmer error
// per spec.md §4.11.
func (r Ref) derefable() bool {
	return r.Kind == RefPointer || r.Kind == RefParam || r.Kind == RefReturn
}

// ConstraintKind is the closed set of points-to constraint shapes.
type ConstraintKind int

const (
	// Assign is `lhs := ref`: lhs's points-to set gains whatever ref
	// evaluates to.
	Assign ConstraintKind = iota
	// Load is `lhs := *ref`: lhs gains whatever the objects ref denotes
	// are known to hold.
	Load
	// Store is `*ref := rhs`: every object ref denotes gains rhs's
	// points-to set (a weak update; pointer analysis never proves a
	// store targets a single concrete object).
	Store
)

// Constraint is one edge of the points-to constraint graph (spec.md
// §4.11's "assign(lhs, ref), store(ref, rhs), load(lhs, ref)").
type Constraint struct {
	Kind ConstraintKind
	Lhs  ir.Var // Assign, Load
	Ref  Ref    // Assign, Load, Store
	Rhs  ir.Var // Store
}

func (c Constraint) String() string {
	switch c.Kind {
	case Assign:
		return fmt.Sprintf("%s := %s", c.Lhs, c.Ref)
	case Load:
		return fmt.Sprintf("%s := *%s", c.Lhs, c.Ref)
	case Store:
		return fmt.Sprintf("*%s := %s", c.Ref, c.Rhs)
	default:
		return "?"
	}
}

// PointsTo is a pointer variable's abstract value: the set of objects
// it may denote, and the offset interval it may be into each of them.
// Heap objects are tracked field-insensitively, one shared cell per
// Object, the same simplification internal/arraysmash makes for array
// elements.
type PointsTo struct {
	Objects map[Object]struct{}
	Offset  interval.Interval
}

func bottomPointsTo() PointsTo {
	return PointsTo{Objects: map[Object]struct{}{}, Offset: interval.Bottom()}
}

func singleton(o Object, off interval.Interval) PointsTo {
	return PointsTo{Objects: map[Object]struct{}{o: {}}, Offset: off}
}

func (p PointsTo) leq(q PointsTo) bool {
	for o := range p.Objects {
		if _, ok := q.Objects[o]; !ok {
			return false
		}
	}
	return p.Offset.Leq(q.Offset)
}

func (p PointsTo) union(q PointsTo) map[Object]struct{} {
	out := make(map[Object]struct{}, len(p.Objects)+len(q.Objects))
	for o := range p.Objects {
		out[o] = struct{}{}
	}
	for o := range q.Objects {
		out[o] = struct{}{}
	}
	return out
}

func (p PointsTo) String() string {
	objs := "{"
	first := true
	for o := range p.Objects {
		if !first {
			objs += ", "
		}
		objs += string(o)
		first = false
	}
	objs += "}"
	return objs + " @ " + p.Offset.String()
}
