package sap

// Symbols with special meaning to the interpreter.
const (
	// VarArgSymbol inside a formal argument list marks the following
	// formal as consuming any number of remaining arguments.
	VarArgSymbol = "&"

	// TrueSymbol and FalseSymbol name the boolean constants bound in
	// every initialized environment.
	TrueSymbol  = "true"
	FalseSymbol = "false"
)
