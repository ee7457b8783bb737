package kcl

// Visitor is a callback set for AST traversal. Enter callbacks returning
// false abort the traversal; nil callbacks are skipped.
type Visitor struct {
	EnterProgram func(*Program) bool
	ExitProgram  func(*Program)
	EnterStmt    func(Stmt) bool
	ExitStmt     func(Stmt)
	EnterExpr    func(Expr) bool
	ExitExpr     func(Expr)
}

// Walk traverses the program depth-first, invoking the visitor's callbacks.
func Walk(prog *Program, v Visitor) {
	w := &walker{v: v}
	w.program(prog)
}

type walker struct {
	v       Visitor
	aborted bool
}

func (w *walker) program(prog *Program) {
	if w.v.EnterProgram != nil && !w.v.EnterProgram(prog) {
		w.aborted = true

		return
	}

	for _, stmt := range prog.Statements {
		w.stmt(stmt)

		if w.aborted {
			return
		}
	}

	if w.v.ExitProgram != nil {
		w.v.ExitProgram(prog)
	}
}

func (w *walker) stmt(stmt Stmt) {
	if w.aborted || stmt == nil {
		return
	}

	if w.v.EnterStmt != nil && !w.v.EnterStmt(stmt) {
		w.aborted = true

		return
	}

	switch s := stmt.(type) {
	case *LetStmt:
		w.expr(s.Value)
	case *AssignStmt:
		w.expr(s.Value)
	case *FnDefStmt:
		for _, param := range s.Params {
			w.expr(param.Default)
		}

		for _, body := range s.Body {
			w.stmt(body)
		}

		w.expr(s.ReturnExpr)
	case *ReturnStmt:
		w.expr(s.Value)
	case *ExprStmt:
		w.expr(s.X)
	case *AnnotationStmt:
		for _, arg := range s.Args {
			w.expr(arg.Value)
		}
	case *ExportStmt:
		w.stmt(s.Inner)
	case *ImportStmt, *ExportImportStmt:
		// No child expressions.
	}

	if w.aborted {
		return
	}

	if w.v.ExitStmt != nil {
		w.v.ExitStmt(stmt)
	}
}

func (w *walker) expr(x Expr) {
	if w.aborted || x == nil {
		return
	}

	if w.v.EnterExpr != nil && !w.v.EnterExpr(x) {
		w.aborted = true

		return
	}

	switch e := x.(type) {
	case *ArrayLit:
		for _, elem := range e.Elements {
			w.expr(elem)
		}
	case *ObjectLit:
		for _, field := range e.Fields {
			w.expr(field.Value)
		}
	case *CallExpr:
		for _, arg := range e.Args {
			w.expr(arg.Value)
		}
	case *PipeExpr:
		w.expr(e.Left)
		w.expr(e.Right)
	case *UnaryExpr:
		w.expr(e.Operand)
	case *BinaryExpr:
		w.expr(e.Left)
		w.expr(e.Right)
	case *IndexExpr:
		w.expr(e.Array)
		w.expr(e.Index)
	case *RangeExpr:
		w.expr(e.Start)
		w.expr(e.End)
	case *MemberExpr:
		w.expr(e.Object)
	case *IfExpr:
		w.expr(e.Cond)
		w.expr(e.Then)

		for _, elif := range e.ElseIfs {
			w.expr(elif.Cond)
			w.expr(elif.Then)
		}

		w.expr(e.Else)
	case *FnExpr:
		for _, param := range e.Params {
			w.expr(param.Default)
		}

		for _, stmt := range e.Body {
			w.stmt(stmt)
		}

		w.expr(e.ReturnExpr)
	case *TypeAscription:
		w.expr(e.X)
	case *NumberLit, *StringLit, *BoolLit, *NilLit, *VarExpr, *PipeSubstitution, *TagDecl:
		// Leaf nodes.
	}

	if w.aborted {
		return
	}

	if w.v.ExitExpr != nil {
		w.v.ExitExpr(x)
	}
}

// FindCall returns the first call to name in AST order, or nil.
func FindCall(prog *Program, name string) *CallExpr {
	var found *CallExpr

	Walk(prog, Visitor{
		EnterExpr: func(x Expr) bool {
			if call, ok := x.(*CallExpr); ok && call.Callee == name {
				found = call

				return false
			}

			return true
		},
	})

	return found
}

// CountNodes returns the number of statements and expressions in the tree.
func CountNodes(prog *Program) int {
	count := 0

	Walk(prog, Visitor{
		EnterStmt: func(Stmt) bool { count++; return true },
		EnterExpr: func(Expr) bool { count++; return true },
	})

	return count
}
