package ir

import "fmt"

// Kind is the closed set of statement kinds the core's abstract
// transformers dispatch on. No other kind can appear in a well-formed
// CFG; a driver that needs something else must lower it to this set
// before handing the CFG to the core.
type Kind int

const (
	KindBinOp Kind = iota
	KindAssign
	KindAssume
	KindHavoc
	KindUnreachable
	KindSelect
	KindFuncDecl
	KindCallSite
	KindReturn
	KindArrayInit
	KindArrayLoad
	KindArrayStore
	KindPtrNew
	KindPtrAssign
	KindPtrLoad
	KindPtrStore
)

func (k Kind) String() string {
	switch k {
	case KindBinOp:
		return "binop"
	case KindAssign:
		return "assign"
	case KindAssume:
		return "assume"
	case KindHavoc:
		return "havoc"
	case KindUnreachable:
		return "unreachable"
	case KindSelect:
		return "select"
	case KindFuncDecl:
		return "funcdecl"
	case KindCallSite:
		return "call"
	case KindReturn:
		return "return"
	case KindArrayInit:
		return "array.init"
	case KindArrayLoad:
		return "array.load"
	case KindArrayStore:
		return "array.store"
	case KindPtrNew:
		return "ptr.new"
	case KindPtrAssign:
		return "ptr.assign"
	case KindPtrLoad:
		return "ptr.load"
	case KindPtrStore:
		return "ptr.store"
	default:
		panic("ir: invalid statement kind")
	}
}

// IsPointerStmt reports whether the statement is one of the pointer
// statement kinds, which numerical domains must treat as a no-op (§4.3).
func (k Kind) IsPointerStmt() bool {
	switch k {
	case KindPtrNew, KindPtrAssign, KindPtrLoad, KindPtrStore:
		return true
	default:
		return false
	}
}

// Stmt is a single three-address statement. Every concrete statement type
// in this package implements it.
type Stmt interface {
	Kind() Kind
	// Defs returns the variables this statement assigns.
	Defs() VarSet
	// Uses returns the variables this statement reads.
	Uses() VarSet
	String() string
}

// BinOp is `dst := lhs op rhs` for a named integer binary operator.
type BinOp struct {
	Dst      Var
	Op       string // e.g. "+", "-", "*", "/", "%"
	Lhs, Rhs Var
}

func (s BinOp) Kind() Kind { return KindBinOp }
func (s BinOp) Defs() VarSet { return NewVarSet(s.Dst) }
func (s BinOp) Uses() VarSet { return NewVarSet(s.Lhs, s.Rhs) }
func (s BinOp) String() string {
	return fmt.Sprintf("%s := %s %s %s", s.Dst, s.Lhs, s.Op, s.Rhs)
}

// Assign is `dst := expr` for a linear expression.
type Assign struct {
	Dst  Var
	Expr LinExpr
}

func (s Assign) Kind() Kind   { return KindAssign }
func (s Assign) Defs() VarSet { return NewVarSet(s.Dst) }
func (s Assign) Uses() VarSet { return NewVarSet(s.Expr.Vars()...) }
func (s Assign) String() string {
	return fmt.Sprintf("%s := %s", s.Dst, s.Expr)
}

// Assume is `assume(constraint)`.
type Assume struct {
	Constraint LinConstraint
}

func (s Assume) Kind() Kind   { return KindAssume }
func (s Assume) Defs() VarSet { return nil }
func (s Assume) Uses() VarSet { return NewVarSet(s.Constraint.Expr.Vars()...) }
func (s Assume) String() string {
	return fmt.Sprintf("assume(%s)", s.Constraint)
}

// Havoc forgets a variable's value.
type Havoc struct {
	Var Var
}

func (s Havoc) Kind() Kind   { return KindHavoc }
func (s Havoc) Defs() VarSet { return NewVarSet(s.Var) }
func (s Havoc) Uses() VarSet { return nil }
func (s Havoc) String() string {
	return fmt.Sprintf("havoc(%s)", s.Var)
}

// Unreachable marks a program point that can never be executed.
type Unreachable struct{}

func (s Unreachable) Kind() Kind   { return KindUnreachable }
func (s Unreachable) Defs() VarSet { return nil }
func (s Unreachable) Uses() VarSet { return nil }
func (s Unreachable) String() string { return "unreachable" }

// Select is `dst := cond ? e1 : e2`.
type Select struct {
	Dst      Var
	Cond     LinConstraint
	E1, E2   LinExpr
}

func (s Select) Kind() Kind { return KindSelect }
func (s Select) Defs() VarSet { return NewVarSet(s.Dst) }
func (s Select) Uses() VarSet {
	u := NewVarSet(s.Cond.Expr.Vars()...)
	return u.Union(NewVarSet(s.E1.Vars()...)).Union(NewVarSet(s.E2.Vars()...))
}
func (s Select) String() string {
	return fmt.Sprintf("%s := %s ? %s : %s", s.Dst, s.Cond, s.E1, s.E2)
}

// FuncDecl declares a function with the given formal parameters.
type FuncDecl struct {
	Name    string
	Formals []Var
}

func (s FuncDecl) Kind() Kind   { return KindFuncDecl }
func (s FuncDecl) Defs() VarSet { return NewVarSet(s.Formals...) }
func (s FuncDecl) Uses() VarSet { return nil }
func (s FuncDecl) String() string {
	return fmt.Sprintf("func %s(%v)", s.Name, s.Formals)
}

// CallSite is `dst := callee(args...)`. Dst may be empty for a
// void call.
type CallSite struct {
	Dst    Var
	Callee string
	Args   []Var
}

func (s CallSite) Kind() Kind { return KindCallSite }
func (s CallSite) Defs() VarSet {
	if s.Dst == "" {
		return nil
	}
	return NewVarSet(s.Dst)
}
func (s CallSite) Uses() VarSet { return NewVarSet(s.Args...) }
func (s CallSite) String() string {
	if s.Dst == "" {
		return fmt.Sprintf("%s(%v)", s.Callee, s.Args)
	}
	return fmt.Sprintf("%s := %s(%v)", s.Dst, s.Callee, s.Args)
}

// Return returns a set of values from the enclosing function.
type Return struct {
	Values []Var
}

func (s Return) Kind() Kind   { return KindReturn }
func (s Return) Defs() VarSet { return nil }
func (s Return) Uses() VarSet { return NewVarSet(s.Values...) }
func (s Return) String() string {
	return fmt.Sprintf("return %v", s.Values)
}

// ArrayInit initializes every cell of Array to the hull of Values.
type ArrayInit struct {
	Array  Var
	Values []int64
}

func (s ArrayInit) Kind() Kind   { return KindArrayInit }
func (s ArrayInit) Defs() VarSet { return NewVarSet(s.Array) }
func (s ArrayInit) Uses() VarSet { return nil }
func (s ArrayInit) String() string {
	return fmt.Sprintf("%s := array_init(%v)", s.Array, s.Values)
}

// ArrayLoad is `dst := array[index]`.
type ArrayLoad struct {
	Dst, Array, Index Var
}

func (s ArrayLoad) Kind() Kind   { return KindArrayLoad }
func (s ArrayLoad) Defs() VarSet { return NewVarSet(s.Dst) }
func (s ArrayLoad) Uses() VarSet { return NewVarSet(s.Array, s.Index) }
func (s ArrayLoad) String() string {
	return fmt.Sprintf("%s := %s[%s]", s.Dst, s.Array, s.Index)
}

// ArrayStore is `array[index] := value`. IsSingleton indicates the
// driver has proven index denotes exactly one concrete array cell.
type ArrayStore struct {
	Array, Index, Value Var
	IsSingleton         bool
}

func (s ArrayStore) Kind() Kind   { return KindArrayStore }
func (s ArrayStore) Defs() VarSet { return NewVarSet(s.Array) }
func (s ArrayStore) Uses() VarSet { return NewVarSet(s.Index, s.Value) }
func (s ArrayStore) String() string {
	return fmt.Sprintf("%s[%s] := %s", s.Array, s.Index, s.Value)
}

// PtrNew is `dst := new(obj)` allocating a fresh object identified by
// Object (a driver-assigned identifier, typically the allocation site).
type PtrNew struct {
	Dst    Var
	Object string
}

func (s PtrNew) Kind() Kind   { return KindPtrNew }
func (s PtrNew) Defs() VarSet { return NewVarSet(s.Dst) }
func (s PtrNew) Uses() VarSet { return nil }
func (s PtrNew) String() string {
	return fmt.Sprintf("%s := new(%s)", s.Dst, s.Object)
}

// PtrAssign is `dst := src`.
type PtrAssign struct {
	Dst, Src Var
}

func (s PtrAssign) Kind() Kind   { return KindPtrAssign }
func (s PtrAssign) Defs() VarSet { return NewVarSet(s.Dst) }
func (s PtrAssign) Uses() VarSet { return NewVarSet(s.Src) }
func (s PtrAssign) String() string {
	return fmt.Sprintf("%s := %s", s.Dst, s.Src)
}

// PtrLoad is `dst := *src`.
type PtrLoad struct {
	Dst, Src Var
}

func (s PtrLoad) Kind() Kind   { return KindPtrLoad }
func (s PtrLoad) Defs() VarSet { return NewVarSet(s.Dst) }
func (s PtrLoad) Uses() VarSet { return NewVarSet(s.Src) }
func (s PtrLoad) String() string {
	return fmt.Sprintf("%s := *%s", s.Dst, s.Src)
}

// PtrStore is `*dst := src`.
type PtrStore struct {
	Dst, Src Var
}

func (s PtrStore) Kind() Kind   { return KindPtrStore }
func (s PtrStore) Defs() VarSet { return nil }
func (s PtrStore) Uses() VarSet { return NewVarSet(s.Dst, s.Src) }
func (s PtrStore) String() string {
	return fmt.Sprintf("*%s := %s", s.Dst, s.Src)
}
