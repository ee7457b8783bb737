package analysis

import (
	"fmt"

	"github.com/kclang/kcl-go"
	"github.com/kclang/kcl-go/stdlib"
	"github.com/kclang/kcl-go/units"
)

// Check validates a Program against the stdlib registry and the user
// function scope, returning the first kind error found.
func Check(prog *kcl.Program) error {
	c := &checker{
		userFns: make(map[string]*kcl.FnDefStmt),
		noStd:   prog.Settings.NoStd,
	}

	// First pass: register top-level function definitions so calls may
	// precede their definition in source order.
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *kcl.FnDefStmt:
			c.userFns[s.Name] = s
		case *kcl.ExportStmt:
			if fn, ok := s.Inner.(*kcl.FnDefStmt); ok {
				c.userFns[fn.Name] = fn
			}
		}
	}

	env := make(map[string]stdlib.Kind)

	for _, stmt := range prog.Statements {
		if err := c.checkStmt(stmt, env); err != nil {
			return err
		}
	}

	return nil
}

type checker struct {
	userFns map[string]*kcl.FnDefStmt
	noStd   bool
}

func (c *checker) checkStmt(stmt kcl.Stmt, env map[string]stdlib.Kind) error {
	switch s := stmt.(type) {
	case *kcl.LetStmt:
		kind, err := c.checkExpr(s.Value, env)
		if err != nil {
			return err
		}

		env[s.Name] = kind

	case *kcl.AssignStmt:
		kind, err := c.checkExpr(s.Value, env)
		if err != nil {
			return err
		}

		env[s.Name] = kind

	case *kcl.FnDefStmt:
		return c.checkFnBody(s.Params, s.Body, s.ReturnExpr, env)

	case *kcl.ReturnStmt:
		if s.Value != nil {
			_, err := c.checkExpr(s.Value, env)

			return err
		}

	case *kcl.ExprStmt:
		_, err := c.checkExpr(s.X, env)

		return err

	case *kcl.ExportStmt:
		return c.checkStmt(s.Inner, env)

	case *kcl.AnnotationStmt, *kcl.ImportStmt, *kcl.ExportImportStmt:
		// Imports are recognised syntactically only; annotations carry no
		// checkable expressions.
	}

	return nil
}

// checkFnBody checks a function body in a lexically scoped child
// environment. Parameters enter the scope as Scalar.
func (c *checker) checkFnBody(params []kcl.Param, body []kcl.Stmt, ret kcl.Expr, env map[string]stdlib.Kind) error {
	scope := make(map[string]stdlib.Kind, len(env)+len(params))
	for name, kind := range env {
		scope[name] = kind
	}

	for _, param := range params {
		scope[param.Name] = stdlib.KindScalar
	}

	for _, stmt := range body {
		if err := c.checkStmt(stmt, scope); err != nil {
			return err
		}
	}

	if ret != nil {
		_, err := c.checkExpr(ret, scope)

		return err
	}

	return nil
}

//nolint:gocyclo // one arm per expression variant
func (c *checker) checkExpr(x kcl.Expr, env map[string]stdlib.Kind) (stdlib.Kind, error) {
	switch e := x.(type) {
	case *kcl.NumberLit, *kcl.BoolLit, *kcl.StringLit:
		return stdlib.KindScalar, nil

	case *kcl.NilLit:
		return stdlib.KindVoid, nil

	case *kcl.PipeSubstitution:
		// Kind-polymorphic placeholder; Scalar by default.
		return stdlib.KindScalar, nil

	case *kcl.TagDecl:
		return stdlib.KindTag, nil

	case *kcl.VarExpr:
		if kind, ok := stdlib.ConstantKind(e.Name); ok {
			return kind, nil
		}

		if kind, ok := env[e.Name]; ok {
			return kind, nil
		}

		return stdlib.KindVoid, fmt.Errorf("Unknown variable: %s", e.Name)

	case *kcl.UnaryExpr:
		kind, err := c.checkExpr(e.Operand, env)
		if err != nil {
			return stdlib.KindVoid, err
		}

		if kind != stdlib.KindScalar {
			return stdlib.KindVoid, fmt.Errorf("Operand of unary %s must be a scalar", e.Op)
		}

		return stdlib.KindScalar, nil

	case *kcl.BinaryExpr:
		return c.checkBinary(e, env)

	case *kcl.ArrayLit:
		allScalar := true

		for _, elem := range e.Elements {
			kind, err := c.checkExpr(elem, env)
			if err != nil {
				return stdlib.KindVoid, err
			}

			if kind != stdlib.KindScalar {
				allScalar = false
			}
		}

		if allScalar {
			return stdlib.KindPoint, nil
		}

		return stdlib.KindObject, nil

	case *kcl.ObjectLit:
		for _, field := range e.Fields {
			if _, err := c.checkExpr(field.Value, env); err != nil {
				return stdlib.KindVoid, err
			}
		}

		return stdlib.KindObject, nil

	case *kcl.IndexExpr:
		arrKind, err := c.checkExpr(e.Array, env)
		if err != nil {
			return stdlib.KindVoid, err
		}

		if arrKind != stdlib.KindPoint {
			return stdlib.KindVoid, fmt.Errorf("Cannot index into a %s", arrKind)
		}

		idxKind, err := c.checkExpr(e.Index, env)
		if err != nil {
			return stdlib.KindVoid, err
		}

		if idxKind != stdlib.KindScalar {
			return stdlib.KindVoid, fmt.Errorf("Index must be a scalar")
		}

		return stdlib.KindScalar, nil

	case *kcl.RangeExpr:
		for _, end := range []kcl.Expr{e.Start, e.End} {
			kind, err := c.checkExpr(end, env)
			if err != nil {
				return stdlib.KindVoid, err
			}

			if kind != stdlib.KindScalar {
				return stdlib.KindVoid, fmt.Errorf("Range endpoints must be scalars")
			}
		}

		return stdlib.KindPoint, nil

	case *kcl.MemberExpr:
		objKind, err := c.checkExpr(e.Object, env)
		if err != nil {
			return stdlib.KindVoid, err
		}

		if objKind != stdlib.KindObject {
			return stdlib.KindVoid, fmt.Errorf("Cannot access member '%s' of a %s", e.Member, objKind)
		}

		return stdlib.KindScalar, nil

	case *kcl.CallExpr:
		return c.checkCall(e, nil, env)

	case *kcl.PipeExpr:
		return c.checkPipe(e, env)

	case *kcl.IfExpr:
		return c.checkIf(e, env)

	case *kcl.FnExpr:
		if err := c.checkFnBody(e.Params, e.Body, e.ReturnExpr, env); err != nil {
			return stdlib.KindVoid, err
		}

		return stdlib.KindScalar, nil

	case *kcl.TypeAscription:
		return c.checkExpr(e.X, env)

	default:
		return stdlib.KindVoid, nil
	}
}

// checkBinary enforces scalar operands and unit compatibility of literal
// operands under additive and comparison operators. Multiplicative
// operators permit mixed units.
func (c *checker) checkBinary(e *kcl.BinaryExpr, env map[string]stdlib.Kind) (stdlib.Kind, error) {
	leftKind, err := c.checkExpr(e.Left, env)
	if err != nil {
		return stdlib.KindVoid, err
	}

	rightKind, err := c.checkExpr(e.Right, env)
	if err != nil {
		return stdlib.KindVoid, err
	}

	if leftKind != stdlib.KindScalar || rightKind != stdlib.KindScalar {
		return stdlib.KindVoid, fmt.Errorf("Operands of %s must be scalars", e.Op)
	}

	additive := e.Op == "+" || e.Op == "-"
	comparison := e.Op == "<" || e.Op == ">" || e.Op == "<=" || e.Op == ">="

	if additive || comparison {
		leftNum, leftOk := e.Left.(*kcl.NumberLit)
		rightNum, rightOk := e.Right.(*kcl.NumberLit)

		if leftOk && rightOk && leftNum.Unit != "" && rightNum.Unit != "" &&
			!units.Compatible(units.Unit(leftNum.Unit), units.Unit(rightNum.Unit)) {
			if additive {
				return stdlib.KindVoid, fmt.Errorf("Cannot add or subtract values with incompatible units")
			}

			return stdlib.KindVoid, fmt.Errorf("Cannot compare values with incompatible units")
		}
	}

	return stdlib.KindScalar, nil
}

func (c *checker) checkPipe(e *kcl.PipeExpr, env map[string]stdlib.Kind) (stdlib.Kind, error) {
	leftKind, err := c.checkExpr(e.Left, env)
	if err != nil {
		return stdlib.KindVoid, err
	}

	if call, ok := e.Right.(*kcl.CallExpr); ok {
		return c.checkCall(call, &leftKind, env)
	}

	// Not a call: the % placeholder is kind-polymorphic; the pipe takes the
	// right operand's kind.
	return c.checkExpr(e.Right, env)
}

func (c *checker) checkIf(e *kcl.IfExpr, env map[string]stdlib.Kind) (stdlib.Kind, error) {
	condKind, err := c.checkExpr(e.Cond, env)
	if err != nil {
		return stdlib.KindVoid, err
	}

	if condKind != stdlib.KindScalar {
		return stdlib.KindVoid, fmt.Errorf("Condition of if must be a scalar")
	}

	thenKind, err := c.checkExpr(e.Then, env)
	if err != nil {
		return stdlib.KindVoid, err
	}

	for _, elif := range e.ElseIfs {
		if _, err := c.checkExpr(elif.Cond, env); err != nil {
			return stdlib.KindVoid, err
		}

		if _, err := c.checkExpr(elif.Then, env); err != nil {
			return stdlib.KindVoid, err
		}
	}

	if e.Else != nil {
		if _, err := c.checkExpr(e.Else, env); err != nil {
			return stdlib.KindVoid, err
		}
	}

	// Branch kinds are not unified; the expression takes the then-branch's.
	return thenKind, nil
}

// checkCall validates a call against user functions first, then the stdlib
// registry. piped carries the kind flowing in through |> (nil otherwise).
func (c *checker) checkCall(call *kcl.CallExpr, piped *stdlib.Kind, env map[string]stdlib.Kind) (stdlib.Kind, error) {
	if fn, ok := c.userFns[call.Callee]; ok {
		return c.checkUserCall(call, fn, piped, env)
	}

	if call.Callee == "fuse" {
		return c.checkFuse(call, piped, env)
	}

	if c.noStd {
		return stdlib.KindVoid, fmt.Errorf("Unknown operation: %s", call.Callee)
	}

	sig, ok := stdlib.Lookup(call.Callee)
	if !ok {
		return stdlib.KindVoid, fmt.Errorf("Unknown operation: %s", call.Callee)
	}

	return c.checkStdlibCall(call, sig, piped, env)
}

func (c *checker) checkUserCall(call *kcl.CallExpr, fn *kcl.FnDefStmt, piped *stdlib.Kind, env map[string]stdlib.Kind) (stdlib.Kind, error) {
	required := 0

	for _, param := range fn.Params {
		if !param.Optional && param.Default == nil {
			required++
		}
	}

	provided := len(call.Args)

	// The piped value becomes the first parameter and must satisfy its
	// kind like any explicit argument. User parameters are Scalar
	// placeholders.
	slot := 0

	if piped != nil {
		provided++

		if len(fn.Params) == 0 {
			return stdlib.KindVoid, fmt.Errorf("Unknown argument '%s' for operation '%s'", "piped", fn.Name)
		}

		if *piped != stdlib.KindScalar {
			return stdlib.KindVoid, fmt.Errorf("Argument '%s' of %s expects Scalar", fn.Params[0].Name, fn.Name)
		}

		slot = 1
	}

	if provided < required {
		return stdlib.KindVoid, fmt.Errorf("%s requires at least %d arguments", fn.Name, required)
	}

	known := make(map[string]bool, len(fn.Params))
	for _, param := range fn.Params {
		known[param.Name] = true
	}

	for _, arg := range call.Args {
		if arg.Positional {
			if slot >= len(fn.Params) {
				return stdlib.KindVoid, fmt.Errorf("Unknown argument '%s' for operation '%s'", arg.Name, fn.Name)
			}

			slot++
		} else if !known[arg.Name] {
			return stdlib.KindVoid, fmt.Errorf("Unknown argument '%s' for operation '%s'", arg.Name, fn.Name)
		}

		kind, err := c.checkExpr(arg.Value, env)
		if err != nil {
			return stdlib.KindVoid, err
		}

		if kind != stdlib.KindScalar {
			return stdlib.KindVoid, fmt.Errorf("Argument '%s' of %s expects Scalar", arg.Name, fn.Name)
		}
	}

	// User return kinds are Scalar placeholders until inference exists.
	return stdlib.KindScalar, nil
}

func (c *checker) checkFuse(call *kcl.CallExpr, piped *stdlib.Kind, env map[string]stdlib.Kind) (stdlib.Kind, error) {
	count := len(call.Args)
	if piped != nil {
		count++

		if *piped != stdlib.KindShape {
			return stdlib.KindVoid, fmt.Errorf("Argument 'shapes' of fuse expects Shape")
		}
	}

	if count < 2 {
		return stdlib.KindVoid, fmt.Errorf("fuse requires at least 2 arguments")
	}

	for _, arg := range call.Args {
		kind, err := c.checkExpr(arg.Value, env)
		if err != nil {
			return stdlib.KindVoid, err
		}

		if kind != stdlib.KindShape {
			return stdlib.KindVoid, fmt.Errorf("Argument 'shapes' of fuse expects Shape")
		}
	}

	return stdlib.KindShape, nil
}

func (c *checker) checkStdlibCall(call *kcl.CallExpr, sig stdlib.Signature, piped *stdlib.Kind, env map[string]stdlib.Kind) (stdlib.Kind, error) {
	params := sig.Params

	// The piped value becomes the first parameter.
	if piped != nil {
		if len(params) == 0 {
			return stdlib.KindVoid, fmt.Errorf("Unknown argument '%s' for operation '%s'", "piped", call.Callee)
		}

		if *piped != params[0].Kind {
			return stdlib.KindVoid, fmt.Errorf("Argument '%s' of %s expects %s", params[0].Name, call.Callee, params[0].Kind)
		}

		params = params[1:]
	}

	byName := make(map[string]stdlib.Param, len(params))
	for _, param := range params {
		byName[param.Name] = param
	}

	seen := make(map[string]bool, len(call.Args))
	slot := 0

	for _, arg := range call.Args {
		var param stdlib.Param

		if arg.Positional {
			if slot >= len(params) {
				return stdlib.KindVoid, fmt.Errorf("Unknown argument '%s' for operation '%s'", arg.Name, call.Callee)
			}

			param = params[slot]
			slot++
		} else {
			p, ok := byName[arg.Name]
			if !ok {
				return stdlib.KindVoid, fmt.Errorf("Unknown argument '%s' for operation '%s'", arg.Name, call.Callee)
			}

			param = p
		}

		seen[param.Name] = true

		kind, err := c.checkExpr(arg.Value, env)
		if err != nil {
			return stdlib.KindVoid, err
		}

		if kind != param.Kind {
			return stdlib.KindVoid, fmt.Errorf("Argument '%s' of %s expects %s", param.Name, call.Callee, param.Kind)
		}
	}

	for _, param := range params {
		if !param.Optional && !seen[param.Name] {
			return stdlib.KindVoid, fmt.Errorf("Missing argument '%s' for operation '%s'", param.Name, call.Callee)
		}
	}

	return sig.Returns, nil
}
