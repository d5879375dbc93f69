package conf

// This module contains data structures
// used to keep configuration variables
// for the command.

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/meteocima/namelist-prepare/namelist"
	"github.com/meteocima/virtual-server/ctx"
	"github.com/meteocima/virtual-server/vpath"
)

// FoldersConf contains path of all
// files and directories somehow needed by the command
type FoldersConf struct {
	// ParflowDir is the ParFlow installation,
	// the solver is found in its bin/ subdirectory.
	ParflowDir vpath.VirtualPath
	// InputsDir contains one directory per scenario
	// with the static inputs copied into the run dir.
	InputsDir vpath.VirtualPath
	// ForcingDir contains the meteorological forcing
	// used by CLM runs.
	ForcingDir vpath.VirtualPath
	// SolidFile is the geometry used by overland runs.
	SolidFile vpath.VirtualPath
	// TemplatesDir contains `.tmpl` inputs rendered
	// with the dates of each period.
	TemplatesDir vpath.VirtualPath
}

// ProcsConf overrides the process topology
// of the scenario when not zero.
type ProcsConf struct {
	P, Q, R int
}

// Count returns the number of mpi processes
// for the topology, 0 when not set.
func (p ProcsConf) Count() int {
	return p.P * p.Q * p.R
}

// MPIConf contains additional options
// to use in mpirun calls.
// You can use MkMPIOptions function to build
// an array of command arguments in a practical way.
type MPIConf struct {
	AdditionalOptions []string
}

// EnvVars are added to the environment of the solver.
type EnvVars map[string]string

// ToSlice converts variables to a slice of string, each one
// in the format NAME=VALUE, sorted by name.
func (vars EnvVars) ToSlice() []string {
	res := make([]string, len(vars))
	i := 0
	for name, val := range vars {
		res[i] = fmt.Sprintf("%s=%s", name, val)
		i++
	}
	sort.Strings(res)
	return res
}

// RenderConf contains options used when
// drawing frames and plots.
type RenderConf struct {
	Vmin     float64
	Vmax     float64
	Colormap string
	// Scale is the size in pixels of a single cell.
	Scale int
	FPS   int
}

// Configuration contains all configuration
// sub structures
type Configuration struct {
	Folders FoldersConf
	Procs   ProcsConf
	MPI     MPIConf
	Env     EnvVars
	Keys    map[string]interface{}
	Render  RenderConf
}

// DefaultRender contains the values used for
// render options missing in configuration file.
var DefaultRender = RenderConf{
	Vmin:     0.1,
	Vmax:     1.0,
	Colormap: "blues",
	Scale:    4,
	FPS:      10,
}

// MkMPIOptions build an array of command arguments
// merging given options with `AdditionalOptions` as read
// from configuration file.
func MkMPIOptions(options ...string) []string {
	var res []string
	res = append(res, Config.MPI.AdditionalOptions...)
	res = append(res, options...)
	return res
}

// Config is the runtime configuration readed from file.
var Config Configuration

// Init initializes the system by reading configuration
// from `confPath` file.
func Init(confFile vpath.VirtualPath) error {
	var cfg Configuration
	if _, err := toml.DecodeFile(confFile.Path, &cfg); err != nil {
		return fmt.Errorf("cannot read configuration file `%s`: %w", confFile.Path, err)
	}
	confDir := confFile.Dir()

	resolve := func(p *vpath.VirtualPath) {
		if p.Path != "" && !path.IsAbs(p.Path) {
			*p = confDir.JoinP(*p)
		}
	}
	resolve(&cfg.Folders.ParflowDir)
	resolve(&cfg.Folders.InputsDir)
	resolve(&cfg.Folders.ForcingDir)
	resolve(&cfg.Folders.SolidFile)
	resolve(&cfg.Folders.TemplatesDir)

	if cfg.Render.Vmin == 0 && cfg.Render.Vmax == 0 {
		cfg.Render.Vmin = DefaultRender.Vmin
		cfg.Render.Vmax = DefaultRender.Vmax
	}
	if cfg.Render.Vmax <= cfg.Render.Vmin {
		return fmt.Errorf("invalid render scale [%g, %g] in `%s`", cfg.Render.Vmin, cfg.Render.Vmax, confFile.Path)
	}
	if cfg.Render.Colormap == "" {
		cfg.Render.Colormap = DefaultRender.Colormap
	}
	if cfg.Render.Scale <= 0 {
		cfg.Render.Scale = DefaultRender.Scale
	}
	if cfg.Render.FPS <= 0 {
		cfg.Render.FPS = DefaultRender.FPS
	}

	if p := cfg.Procs; p.P < 0 || p.Q < 0 || p.R < 0 || (p.Count() == 0 && p.P+p.Q+p.R != 0) {
		return fmt.Errorf("invalid process topology %dx%dx%d in `%s`", p.P, p.Q, p.R, confFile.Path)
	}

	Config = cfg
	return nil
}

// TemplateFile returns the path of template
// `source` in the templates directory.
func TemplateFile(source string) vpath.VirtualPath {
	return Config.Folders.TemplatesDir.Join(source)
}

// RenderTemplate reads template `source`, renders it
// with `args` and writes the result to `target`.
func RenderTemplate(vs *ctx.Context, source vpath.VirtualPath, target vpath.VirtualPath, args namelist.Args) {
	if vs.Err != nil {
		return
	}

	tmplFile := vs.ReadString(source)
	if vs.Err != nil {
		return
	}

	tmpl := namelist.Tmpl{}
	tmpl.ReadTemplateFrom(strings.NewReader(tmplFile))

	var rendered strings.Builder
	tmpl.RenderTo(args, &rendered)
	vs.WriteString(target, rendered.String())
}
