package sap

// Eval evaluates an expression in env and returns its value.
func (env *Env) Eval(v *Node) (*Value, *Error) {
	switch v.Type {
	case NInteger:
		return Int(v.Int), nil
	case NString:
		return String(v.Str), nil
	case NIdentifier:
		return env.evalIdentifier(v)
	case NApplication:
		return env.evalApplication(v)
	case NCond:
		return env.evalCond(v)
	case NBlock:
		return env.evalBlock(v)
	case NLet:
		return env.evalLet(v)
	case NAssign:
		return env.evalAssign(v)
	case NLambda:
		return env.evalLambda(v)
	default:
		return nil, env.Errorf(ErrnoInvalidExpr, "expression cannot be evaluated: %s", v.Type)
	}
}

func (env *Env) evalIdentifier(v *Node) (*Value, *Error) {
	val, ok := env.Get(v.Str)
	if !ok {
		return nil, env.Errorf(ErrnoUnbound, "%s", v.Str)
	}
	return val, nil
}

func (env *Env) evalApplication(v *Node) (*Value, *Error) {
	if len(v.Cells) == 0 {
		return nil, env.Errorf(ErrnoInvalidExpr, "application has no function")
	}
	fun, err := env.Eval(v.Cells[0])
	if err != nil {
		return nil, err
	}
	args := make([]*Value, 0, len(v.Cells)-1)
	for _, cell := range v.Cells[1:] {
		arg, err := env.Eval(cell)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return env.Call(fun, args)
}

func (env *Env) evalCond(v *Node) (*Value, *Error) {
	for _, clause := range v.Cells {
		if clause.Type != NClause || len(clause.Cells) != 2 {
			return nil, env.Errorf(ErrnoInvalidExpr, "malformed cond clause")
		}
		test, err := env.Eval(clause.Cells[0])
		if err != nil {
			return nil, err
		}
		if test.Type != VBool {
			return nil, env.Errorf(ErrnoType, "cond test is not a boolean: %s", test.Type)
		}
		if test.Bool {
			return env.Eval(clause.Cells[1])
		}
	}
	return nil, env.Errorf(ErrnoNoMatch, "no clause matched")
}

func (env *Env) evalBlock(v *Node) (*Value, *Error) {
	return env.Copy().evalSeq(v.Cells)
}

// evalSeq evaluates exprs in order directly in env and returns the
// last value.
func (env *Env) evalSeq(exprs []*Node) (*Value, *Error) {
	if len(exprs) == 0 {
		return nil, env.Errorf(ErrnoInvalidExpr, "empty block")
	}
	var ret *Value
	for _, expr := range exprs {
		var err *Error
		ret, err = env.Eval(expr)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (env *Env) evalLet(v *Node) (*Value, *Error) {
	if len(v.Cells) != 3 {
		return nil, env.Errorf(ErrnoInvalidExpr, "malformed let")
	}
	id, expr, body := v.Cells[0], v.Cells[1], v.Cells[2]
	if id.Type != NIdentifier {
		return nil, env.Errorf(ErrnoInvalidExpr, "let binding is not an identifier: %s", id.Type)
	}
	val, err := env.Eval(expr)
	if err != nil {
		return nil, err
	}
	benv := env.Copy()
	benv.Put(id.Str, val)
	return benv.Eval(body)
}

func (env *Env) evalAssign(v *Node) (*Value, *Error) {
	if len(v.Cells) != 2 {
		return nil, env.Errorf(ErrnoInvalidExpr, "malformed assignment")
	}
	id := v.Cells[0]
	if id.Type != NIdentifier {
		return nil, env.Errorf(ErrnoInvalidExpr, "assignment target is not an identifier: %s", id.Type)
	}
	val, err := env.Eval(v.Cells[1])
	if err != nil {
		return nil, err
	}
	if err := env.Assign(id.Str, val); err != nil {
		return nil, err
	}
	return val, nil
}

func (env *Env) evalLambda(v *Node) (*Value, *Error) {
	if len(v.Cells) != 2 {
		return nil, env.Errorf(ErrnoInvalidExpr, "malformed lambda")
	}
	params, body := v.Cells[0], v.Cells[1]
	if params.Type != NParams {
		return nil, env.Errorf(ErrnoInvalidExpr, "lambda parameters are malformed")
	}
	if body.Type != NBlock {
		return nil, env.Errorf(ErrnoInvalidExpr, "lambda body is not a block: %s", body.Type)
	}
	formals := make([]string, len(params.Cells))
	for i, p := range params.Cells {
		if p.Type != NIdentifier {
			return nil, env.Errorf(ErrnoInvalidExpr, "lambda parameter is not an identifier: %s", p.Type)
		}
		formals[i] = p.Str
	}
	return newClosure(formals, body.Cells, env.Copy()), nil
}

// Call invokes a function value on already evaluated arguments.
func (env *Env) Call(fun *Value, args []*Value) (*Value, *Error) {
	switch fun.Type {
	case VBuiltin:
		return env.callBuiltin(fun, args)
	case VClosure:
		return env.callClosure(fun, args)
	default:
		return nil, env.Errorf(ErrnoNotCallable, "cannot call value of type %s", fun.Type)
	}
}

func (env *Env) callBuiltin(fun *Value, args []*Value) (*Value, *Error) {
	if err := env.checkArity(fun, len(args)); err != nil {
		return nil, err
	}
	if !env.Runtime.Stack.Push(fun.FunName) {
		return nil, env.overflowError()
	}
	defer env.Runtime.Stack.Pop()
	return fun.Fun(env, args)
}

func (env *Env) callClosure(fun *Value, args []*Value) (*Value, *Error) {
	if len(args) != len(fun.Formals) {
		return nil, env.Errorf(ErrnoArity, "function expects %d arguments (got %d)", len(fun.Formals), len(args))
	}
	fenv := fun.Env.Copy()
	for i, name := range fun.Formals {
		fenv.Put(name, args[i])
	}
	if !env.Runtime.Stack.Push("lambda") {
		return nil, env.overflowError()
	}
	defer env.Runtime.Stack.Pop()
	return fenv.evalSeq(fun.Body)
}

// checkArity verifies the number of arguments passed to a builtin
// against its formals.  A VarArgSymbol in the formals makes the
// trailing formal accept any number of arguments.
func (env *Env) checkArity(fun *Value, nargs int) *Error {
	formals := fun.Formals
	if n := len(formals); n >= 2 && formals[n-2] == VarArgSymbol {
		if min := n - 2; nargs < min {
			return env.Errorf(ErrnoArity, "%s expects at least %d arguments (got %d)", fun.FunName, min, nargs)
		}
		return nil
	}
	if nargs != len(formals) {
		return env.Errorf(ErrnoArity, "%s expects %d arguments (got %d)", fun.FunName, len(formals), nargs)
	}
	return nil
}

func (env *Env) overflowError() *Error {
	return env.Errorf(ErrnoStackOverflow, "stack height exceeded maximum: %d", env.Runtime.Stack.MaxHeight)
}
