package loader

import (
	"github.com/pkg/errors"

	"github.com/coresim/coresim/go/models"
)

var ErrNoLoader = errors.New("no loader accepted the object file")

// Registry is the ordered loader dispatch chain. It is built once at
// startup, read-only afterwards, and passed by reference wherever
// dispatch happens; there is no hidden global and nothing to tear down.
type Registry struct {
	loaders []models.Loader
}

func NewRegistry(loaders ...models.Loader) *Registry {
	return &Registry{loaders: loaders}
}

// TryLoaders walks the chain in registration order. Not-applicable
// results move on to the next candidate; the first loader to build a
// process wins and later candidates are never consulted. A loader error
// is fatal and terminates dispatch. Exhausting the chain is reported,
// never silently swallowed.
func (r *Registry) TryLoaders(params *models.ProcessParams, obj models.ObjectFile) (*models.Process, error) {
	for _, l := range r.loaders {
		proc, err := l.Load(params, obj)
		if err != nil {
			return nil, errors.Wrapf(err, "loader %s failed", l.Name())
		}
		if proc != nil {
			return proc, nil
		}
	}
	return nil, errors.WithStack(ErrNoLoader)
}

// DefaultLoaders is the stock chain. Ambiguous images resolve to the
// first compatible loader in this order.
func DefaultLoaders() []models.Loader {
	return []models.Loader{
		linuxLoader{},
		freebsdLoader{},
		solarisLoader{},
		tru64Loader{},
	}
}

func buildProcess(params *models.ProcessParams, obj models.ObjectFile) *models.Process {
	return &models.Process{
		Params: params,
		Obj:    obj,
		Interp: obj.Interpreter(),
		Arch:   obj.Arch(),
		OpSys:  obj.OpSys(),
	}
}

type linuxLoader struct{}

func (linuxLoader) Name() string { return "linux" }

func (linuxLoader) Load(params *models.ProcessParams, obj models.ObjectFile) (*models.Process, error) {
	switch obj.OpSys() {
	case models.Linux, models.LinuxArmOABI:
	default:
		return nil, nil
	}
	switch obj.Arch() {
	case models.X86_64, models.I386, models.Arm64, models.Arm, models.Thumb,
		models.Mips, models.Power, models.SPARC64, models.SPARC32,
		models.Riscv64, models.Riscv32:
		return buildProcess(params, obj), nil
	}
	return nil, nil
}

type freebsdLoader struct{}

func (freebsdLoader) Name() string { return "freebsd" }

func (freebsdLoader) Load(params *models.ProcessParams, obj models.ObjectFile) (*models.Process, error) {
	if obj.OpSys() != models.FreeBSD {
		return nil, nil
	}
	switch obj.Arch() {
	case models.X86_64, models.Arm64, models.Riscv64:
		return buildProcess(params, obj), nil
	}
	return nil, nil
}

type solarisLoader struct{}

func (solarisLoader) Name() string { return "solaris" }

func (solarisLoader) Load(params *models.ProcessParams, obj models.ObjectFile) (*models.Process, error) {
	if obj.OpSys() != models.Solaris {
		return nil, nil
	}
	switch obj.Arch() {
	case models.SPARC64, models.SPARC32:
		return buildProcess(params, obj), nil
	}
	return nil, nil
}

type tru64Loader struct{}

func (tru64Loader) Name() string { return "tru64" }

func (tru64Loader) Load(params *models.ProcessParams, obj models.ObjectFile) (*models.Process, error) {
	if obj.OpSys() != models.Tru64 || obj.Arch() != models.Alpha {
		return nil, nil
	}
	return buildProcess(params, obj), nil
}
