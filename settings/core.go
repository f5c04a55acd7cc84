// Package settings declares the core capture settings persisted in the INI file.
package settings

import (
	"strings"

	"github.com/samber/lo"
	"github.com/snapkit-cli/snapkit/constant"
	"github.com/snapkit-cli/snapkit/ini"
	"github.com/snapkit-cli/snapkit/log"
	"github.com/snapkit-cli/snapkit/where"
)

// legacyDesignations maps designations written by older releases to their current names.
var legacyDesignations = map[string]string{
	"FileNoDialog": "File",
	"FileDialog":   "File",
	"Editor":       "Open",
}

// Formats lists the image formats a capture may be stored as.
var Formats = []string{"png", "jpg", "bmp", "gif", "tiff"}

// Core holds the settings every destination and processor may consult.
type Core struct {
	*ini.Section

	Destinations        []string
	ExcludeDestinations []string
	Processors          []string

	OutputFilePath                string
	OutputFileFilenamePattern     string
	OutputFileFormat              string
	OutputFileAllowOverwrite      bool
	OutputFileCopyPathToClipboard bool

	ActiveTitleFixes []string
	TitleFixMatcher  map[string]string
	TitleFixReplacer map[string]string
}

// NewCore returns the Core section bound to its schema and filled with defaults.
func NewCore() *Core {
	c := &Core{}
	c.Section = ini.NewSection("Core", "Snapkit core configuration", c).Bind(
		ini.Strings("Destinations", &c.Destinations, []string{"File"},
			"Which destinations? Options are: Clipboard, File, Open, or any plugin designation"),
		ini.Strings("ExcludeDestinations", &c.ExcludeDestinations, nil,
			"Comma separated list of destinations which should be disabled"),
		ini.Strings("Processors", &c.Processors, []string{"TitleFix"},
			"Processors applied before exporting, in order"),
		ini.String("OutputFilePath", &c.OutputFilePath, where.Captures(),
			"Output file path"),
		ini.String("OutputFileFilenamePattern", &c.OutputFileFilenamePattern,
			strings.Join([]string{constant.PatternYear, "-", constant.PatternMonth, "-", constant.PatternDay, " ",
				constant.PatternHour, "_", constant.PatternMinute, "_", constant.PatternSecond, "-", constant.PatternTitle}, ""),
			"Filename pattern using ${YYYY} ${MM} ${DD} ${hh} ${mm} ${ss} ${title} ${user}"),
		ini.Enum("OutputFileFormat", &c.OutputFileFormat, "png", Formats,
			"Extension used when the capture has no format of its own"),
		ini.Bool("OutputFileAllowOverwrite", &c.OutputFileAllowOverwrite, true,
			"Should existing files be overwritten"),
		ini.Bool("OutputFileCopyPathToClipboard", &c.OutputFileCopyPathToClipboard, false,
			"Copy the path of a saved file to the clipboard"),
		ini.Strings("ActiveTitleFixes", &c.ActiveTitleFixes, []string{"Firefox", "IE", "Chrome"},
			"The title fixes that are active"),
		ini.StringMap("TitleFixMatcher", &c.TitleFixMatcher, map[string]string{
			"Firefox": " - Mozilla Firefox.*",
			"IE":      " - (Microsoft|Windows) Internet Explorer.*",
			"Chrome":  " - Google Chrome.*",
		}, "The regular expressions to match the title with"),
		ini.StringMap("TitleFixReplacer", &c.TitleFixReplacer, map[string]string{
			"Firefox": "",
			"IE":      "",
			"Chrome":  "",
		}, "The replacements for the matchers"),
	)
	return c
}

// PreCheckValue rewrites designations stored by older releases.
func (c *Core) PreCheckValue(name, value string) string {
	switch name {
	case "Destinations", "ExcludeDestinations", "Processors":
		parts := lo.Map(strings.Split(value, ","), func(p string, _ int) string {
			p = strings.TrimSpace(p)
			if current, ok := legacyDesignations[p]; ok {
				log.Infof("Migrating %s entry %s to %s", name, p, current)
				return current
			}
			return p
		})
		return strings.Join(lo.Uniq(parts), ",")
	}
	return value
}

// AfterLoad drops title fixes without a matcher and fills missing replacers.
func (c *Core) AfterLoad() {
	if strings.TrimSpace(c.OutputFilePath) == "" {
		c.OutputFilePath = where.Captures()
	}

	c.ActiveTitleFixes = lo.Filter(c.ActiveTitleFixes, func(fix string, _ int) bool {
		if _, ok := c.TitleFixMatcher[fix]; !ok {
			log.Warnf("Title fix %s has no matcher, disabling it", fix)
			return false
		}
		return true
	})

	if c.TitleFixReplacer == nil {
		c.TitleFixReplacer = make(map[string]string)
	}
	for fix := range c.TitleFixMatcher {
		if _, ok := c.TitleFixReplacer[fix]; !ok {
			c.TitleFixReplacer[fix] = ""
		}
	}
}
