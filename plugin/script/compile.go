// Package script loads Lua plugins that provide destinations and processors.
package script

import (
	"sync"

	"github.com/snapkit-cli/snapkit/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var bytecodeCache sync.Map

// compileAndRun runs the script at path in L. Compiled prototypes are cached per path.
func compileAndRun(L *lua.LState, path string) error {
	proto, err := compile(path)
	if err != nil {
		return err
	}

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

func compile(path string) (*lua.FunctionProto, error) {
	if cached, ok := bytecodeCache.Load(path); ok {
		return cached.(*lua.FunctionProto), nil
	}

	file, err := filesystem.API().Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	chunk, err := parse.Parse(file, path)
	if err != nil {
		return nil, err
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return nil, err
	}

	bytecodeCache.Store(path, proto)
	return proto, nil
}

// forget drops the cached prototype of path.
func forget(path string) {
	bytecodeCache.Delete(path)
}
