package models

// ProcessParams carries the caller-supplied context for building a process
// out of a recognized object file.
type ProcessParams struct {
	Executable string
	Args       []string
	Env        []string
}

// Process is the runnable image a loader builds from a compatible object
// file. Execution itself lives outside this layer.
type Process struct {
	Params *ProcessParams
	Obj    ObjectFile
	Interp ObjectFile
	Arch   Arch
	OpSys  OpSys
}

// Loader recognizes object files it is compatible with and builds a
// Process from them. Returning (nil, nil) means not applicable (wrong
// arch or OS) and dispatch moves on to the next candidate. A non-nil
// error is fatal: malformed input the loader claims to own, or I/O
// failure. It terminates dispatch entirely.
type Loader interface {
	Name() string
	Load(params *ProcessParams, obj ObjectFile) (*Process, error)
}
