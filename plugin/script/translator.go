package script

import (
	"fmt"
	"maps"
	"time"

	"github.com/snapkit-cli/snapkit/capture"
	lua "github.com/yuin/gopher-lua"
)

func getString(table *lua.LTable, key string) string {
	val := table.RawGetString(key)
	if val.Type() == lua.LTString {
		return val.String()
	}
	return ""
}

func getInt(table *lua.LTable, key string) int {
	if n, ok := table.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getBool returns def unless key is set to a boolean.
func getBool(table *lua.LTable, key string, def bool) bool {
	if b, ok := table.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

func getFunction(table *lua.LTable, key string) *lua.LFunction {
	fn, _ := table.RawGetString(key).(*lua.LFunction)
	return fn
}

func getStringMap(table *lua.LTable, key string) map[string]string {
	result := make(map[string]string)
	inner, ok := table.RawGetString(key).(*lua.LTable)
	if !ok {
		return result
	}

	inner.ForEach(func(k, v lua.LValue) {
		if k.Type() == lua.LTString {
			result[k.String()] = v.String()
		}
	})
	return result
}

// entries returns the table values of a Lua array, in order.
func entries(value lua.LValue) ([]*lua.LTable, error) {
	table, ok := value.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("expected a table, got %s", value.Type())
	}

	var result []*lua.LTable
	for i := 1; i <= table.Len(); i++ {
		entry, ok := table.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("entry %d is not a table", i)
		}
		result = append(result, entry)
	}
	return result, nil
}

// captureToTable exposes a capture to a script.
func captureToTable(L *lua.LState, manual bool, surface *capture.Surface, details *capture.Details) *lua.LTable {
	metadata := L.NewTable()
	for k, v := range details.Metadata {
		metadata.RawSetString(k, lua.LString(v))
	}

	table := L.NewTable()
	table.RawSetString("title", lua.LString(details.Title))
	table.RawSetString("filename", lua.LString(details.Filename))
	table.RawSetString("datetime", lua.LNumber(details.DateTime.Unix()))
	table.RawSetString("metadata", metadata)
	table.RawSetString("manual", lua.LBool(manual))
	table.RawSetString("format", lua.LString(surface.Format))
	table.RawSetString("content_type", lua.LString(surface.ContentType()))
	table.RawSetString("data", lua.LString(surface.Data))
	return table
}

// applyCapture copies script changes back. It reports whether anything changed.
func applyCapture(table *lua.LTable, surface *capture.Surface, details *capture.Details) bool {
	changed := false

	if title := getString(table, "title"); title != details.Title {
		details.Title = title
		changed = true
	}

	metadata := getStringMap(table, "metadata")
	if !maps.Equal(metadata, details.Metadata) {
		details.Metadata = metadata
		changed = true
	}

	if data := getString(table, "data"); data != string(surface.Data) {
		surface.Data = []byte(data)
		surface.Modified = true
		changed = true
	}

	if format := getString(table, "format"); format != "" && format != surface.Format {
		surface.Format = format
		surface.Modified = true
		changed = true
	}

	if ts := getInt(table, "datetime"); ts != 0 && int64(ts) != details.DateTime.Unix() {
		details.DateTime = time.Unix(int64(ts), 0)
		changed = true
	}

	return changed
}

// exportFromTable reads the table returned by a destination export function.
func exportFromTable(table *lua.LTable, designation, description string) capture.ExportInformation {
	info := capture.ExportInformation{
		Designation: designation,
		Description: description,
		URI:         getString(table, "uri"),
		Path:        getString(table, "path"),
	}
	info.ErrorMessage = getString(table, "error")
	info.ExportMade = getBool(table, "made", info.ErrorMessage == "")
	return info
}
