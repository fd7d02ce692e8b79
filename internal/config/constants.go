package config

// Version is printed by `ry -v`.
const Version = "Ry (ByteCode Edition) v0.2.0"

const SourceFileExt = ".ry"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".ry"}

// ProjectFileName is the optional per-project configuration file.
const ProjectFileName = "ry.yaml"

// Built-in native function names, registered at VM construction.
const (
	OutFuncName   = "out"
	InputFuncName = "input"
	ClockFuncName = "clock"
	ClearFuncName = "clear"
	ExitFuncName  = "exit"
	TypeFuncName  = "type"
	UseFuncName   = "use"
)

// NativeNames is the set the compiler consults when deciding whether a
// name escapes namespace prefixing.
var NativeNames = map[string]bool{
	OutFuncName:   true,
	InputFuncName: true,
	ClockFuncName: true,
	ClearFuncName: true,
	ExitFuncName:  true,
	TypeFuncName:  true,
	UseFuncName:   true,
}
