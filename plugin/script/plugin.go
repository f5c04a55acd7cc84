package script

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/snapkit-cli/snapkit/capture"
	"github.com/snapkit-cli/snapkit/constant"
	"github.com/snapkit-cli/snapkit/destination"
	"github.com/snapkit-cli/snapkit/filesystem"
	"github.com/snapkit-cli/snapkit/log"
	"github.com/snapkit-cli/snapkit/processor"
	"github.com/snapkit-cli/snapkit/util"
	lua "github.com/yuin/gopher-lua"
)

// Plugin is a Lua script defining Destinations and/or Processors functions.
// An LState is not safe for concurrent use, so every call into the script holds mu.
type Plugin struct {
	name string
	path string

	mu    sync.Mutex
	state *lua.LState
}

// Load runs the script at path and checks that it defines at least one of the plugin functions.
func Load(path string) (*Plugin, error) {
	state := lua.NewState()
	libs.Preload(state)

	if err := compileAndRun(state, path); err != nil {
		state.Close()
		forget(path)
		return nil, fmt.Errorf("load plugin %s: %w", path, err)
	}

	name := util.FileStem(path)

	defined := 0
	for _, fn := range []string{constant.DestinationsFn, constant.ProcessorsFn} {
		if state.GetGlobal(fn).Type() == lua.LTFunction {
			defined++
		}
	}
	if defined == 0 {
		state.Close()
		return nil, fmt.Errorf("plugin %s defines neither %s nor %s", name, constant.DestinationsFn, constant.ProcessorsFn)
	}

	return &Plugin{name: name, path: path, state: state}, nil
}

// LoadAll loads every plugin script in dir. Scripts that fail to load are logged and skipped.
func LoadAll(dir string) ([]*Plugin, error) {
	infos, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var plugins []*Plugin
	for _, info := range infos {
		if info.IsDir() || filepath.Ext(info.Name()) != constant.PluginExtension {
			continue
		}

		p, err := Load(filepath.Join(dir, info.Name()))
		if err != nil {
			log.Error(err)
			continue
		}

		plugins = append(plugins, p)
	}

	return plugins, nil
}

func (p *Plugin) Name() string {
	return p.name
}

// Path returns the script location.
func (p *Plugin) Path() string {
	return p.path
}

// Close releases the Lua state.
func (p *Plugin) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.Close()
}

// Destinations calls the script's Destinations function.
func (p *Plugin) Destinations() ([]destination.Destination, error) {
	tables, err := p.list(constant.DestinationsFn)
	if err != nil {
		return nil, err
	}

	var result []destination.Destination
	for _, t := range tables {
		d := &scriptDestination{
			plugin:      p,
			designation: getString(t, "designation"),
			description: getString(t, "description"),
			priority:    getInt(t, "priority"),
			active:      getBool(t, "active", true),
			export:      getFunction(t, "export"),
		}
		if d.designation == "" {
			log.Warnf("Plugin %s returned a destination without designation", p.name)
			continue
		}
		result = append(result, d)
	}

	return result, nil
}

// Processors calls the script's Processors function.
func (p *Plugin) Processors() ([]processor.Processor, error) {
	tables, err := p.list(constant.ProcessorsFn)
	if err != nil {
		return nil, err
	}

	var result []processor.Processor
	for _, t := range tables {
		proc := &scriptProcessor{
			plugin:      p,
			designation: getString(t, "designation"),
			description: getString(t, "description"),
			priority:    getInt(t, "priority"),
			active:      getBool(t, "active", true),
			process:     getFunction(t, "process"),
		}
		if proc.designation == "" {
			log.Warnf("Plugin %s returned a processor without designation", p.name)
			continue
		}
		result = append(result, proc)
	}

	return result, nil
}

func (p *Plugin) list(fn string) ([]*lua.LTable, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	global := p.state.GetGlobal(fn)
	if global.Type() != lua.LTFunction {
		return nil, nil
	}

	ret, err := p.call(context.Background(), global, 1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}

	if ret[0] == lua.LNil {
		return nil, nil
	}

	return entries(ret[0])
}

// call invokes fn and returns exactly nret values. The caller must hold mu.
func (p *Plugin) call(ctx context.Context, fn lua.LValue, nret int, args ...lua.LValue) ([]lua.LValue, error) {
	p.state.SetContext(ctx)
	defer p.state.RemoveContext()

	top := p.state.GetTop()
	if err := p.state.CallByParam(lua.P{Fn: fn, NRet: nret, Protect: true}, args...); err != nil {
		return nil, err
	}

	ret := make([]lua.LValue, nret)
	for i := range ret {
		ret[i] = p.state.Get(top + 1 + i)
	}
	p.state.SetTop(top)

	return ret, nil
}

// failure turns a "nil, message" return into an error.
func failure(ret []lua.LValue) error {
	if len(ret) > 1 && ret[1].Type() == lua.LTString {
		return errors.New(ret[1].String())
	}
	return errors.New("no result")
}

type scriptDestination struct {
	plugin      *Plugin
	designation string
	description string
	priority    int
	active      bool
	export      *lua.LFunction
}

func (d *scriptDestination) Designation() string { return d.designation }
func (d *scriptDestination) Description() string { return d.description }
func (d *scriptDestination) Priority() int       { return d.priority }
func (d *scriptDestination) IsActive() bool      { return d.active && d.export != nil }

func (d *scriptDestination) ExportCapture(ctx context.Context, manual bool, surface *capture.Surface, details *capture.Details) (capture.ExportInformation, error) {
	d.plugin.mu.Lock()
	defer d.plugin.mu.Unlock()

	arg := captureToTable(d.plugin.state, manual, surface, details)
	ret, err := d.plugin.call(ctx, d.export, 2, arg)
	if err != nil {
		return capture.ExportInformation{}, err
	}

	table, ok := ret[0].(*lua.LTable)
	if !ok {
		return capture.ExportInformation{}, failure(ret)
	}

	info := exportFromTable(table, d.designation, d.description)
	if !info.ExportMade && info.ErrorMessage != "" {
		return info, errors.New(info.ErrorMessage)
	}
	return info, nil
}

type scriptProcessor struct {
	plugin      *Plugin
	designation string
	description string
	priority    int
	active      bool
	process     *lua.LFunction
}

func (s *scriptProcessor) Designation() string { return s.designation }
func (s *scriptProcessor) Description() string { return s.description }
func (s *scriptProcessor) Priority() int       { return s.priority }
func (s *scriptProcessor) IsActive() bool      { return s.active && s.process != nil }

func (s *scriptProcessor) ProcessCapture(ctx context.Context, surface *capture.Surface, details *capture.Details) (bool, error) {
	s.plugin.mu.Lock()
	defer s.plugin.mu.Unlock()

	arg := captureToTable(s.plugin.state, false, surface, details)
	ret, err := s.plugin.call(ctx, s.process, 2, arg)
	if err != nil {
		return false, err
	}

	if ret[0] == lua.LNil && ret[1] != lua.LNil {
		return false, failure(ret)
	}

	return applyCapture(arg, surface, details), nil
}
