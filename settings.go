package kcl

// applySettings collects top-level @settings and @no_std annotations into
// Program.Settings, then records the effective unit on unitless number
// literals. The walk never changes the structural shape of the tree.
func applySettings(prog *Program) {
	for _, stmt := range prog.Statements {
		ann, ok := stmt.(*AnnotationStmt)
		if !ok {
			continue
		}

		switch ann.Name {
		case "settings":
			for _, arg := range ann.Args {
				value := settingValue(arg.Value)

				switch arg.Name {
				case "defaultLengthUnit":
					prog.Settings.DefaultLengthUnit = value
				case "defaultAngleUnit":
					prog.Settings.DefaultAngleUnit = value
				case "kclVersion":
					prog.Settings.KCLVersion = value
				}
			}
		case "no_std":
			prog.Settings.NoStd = true
		}
	}

	if prog.Settings.DefaultLengthUnit == "" {
		return
	}

	Walk(prog, Visitor{
		EnterExpr: func(x Expr) bool {
			if n, ok := x.(*NumberLit); ok && n.Unit == "" {
				n.ResolvedUnit = prog.Settings.DefaultLengthUnit
			}

			return true
		},
	})
}

// settingValue renders a settings argument: unit identifiers and strings
// are taken verbatim.
func settingValue(x Expr) string {
	switch v := x.(type) {
	case *VarExpr:
		return v.Name
	case *StringLit:
		return v.Value
	default:
		return ""
	}
}
