package icon

import "github.com/snapkit-cli/snapkit/style"

// Icon identifies a symbol.
type Icon int

const (
	Success Icon = iota + 1
	Fail
	Skip
	Progress
	Question
	Mark
	Lua
	Upload
	Lock
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "✅",
		nerd:    style.Fg("2")(""),
		plain:   style.Fg("2")("✓"),
		kaomoji: style.Fg("2")("(ᵔ◡ᵔ)"),
		squares: style.Fg("2")("■"),
	},
	Fail: {
		emoji:   "❌",
		nerd:    style.Fg("1")(""),
		plain:   style.Fg("1")("✖"),
		kaomoji: style.Fg("1")("(╥﹏╥)"),
		squares: style.Fg("1")("■"),
	},
	Skip: {
		emoji:   "⏭️",
		nerd:    style.Fg("3")(""),
		plain:   style.Fg("3")("-"),
		kaomoji: style.Fg("3")("(¬_¬)"),
		squares: style.Fg("3")("■"),
	},
	Progress: {
		emoji:   "⏳",
		nerd:    style.Fg("4")(""),
		plain:   style.Fg("4")("..."),
		kaomoji: style.Fg("4")("( ˘▽˘)っ"),
		squares: style.Fg("4")("□"),
	},
	Question: {
		emoji:   "❓",
		nerd:    style.Fg("5")(""),
		plain:   style.Fg("5")("?"),
		kaomoji: style.Fg("5")("(・・ ) ?"),
		squares: style.Fg("5")("■"),
	},
	Mark: {
		emoji:   "➡️",
		nerd:    style.Fg("6")(""),
		plain:   style.Fg("6")(">"),
		kaomoji: style.Fg("6")("(☞ﾟヮﾟ)☞"),
		squares: style.Fg("6")("▶"),
	},
	Lua: {
		emoji:   "🌙",
		nerd:    style.Fg("4")(""),
		plain:   style.Fg("4")("lua"),
		kaomoji: style.Fg("4")("☽"),
		squares: style.Fg("4")("◐"),
	},
	Upload: {
		emoji:   "☁️",
		nerd:    style.Fg("6")(""),
		plain:   style.Fg("6")("^"),
		kaomoji: style.Fg("6")("(ﾉ´ヮ`)ﾉ"),
		squares: style.Fg("6")("▲"),
	},
	Lock: {
		emoji:   "🔒",
		nerd:    style.Fg("3")(""),
		plain:   style.Fg("3")("*"),
		kaomoji: style.Fg("3")("(ง'̀-'́)ง"),
		squares: style.Fg("3")("■"),
	},
}
