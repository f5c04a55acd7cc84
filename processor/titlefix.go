package processor

import (
	"context"
	"fmt"
	"regexp"

	"github.com/snapkit-cli/snapkit/capture"
	"github.com/snapkit-cli/snapkit/log"
	"github.com/snapkit-cli/snapkit/settings"
)

type titleFix struct {
	name     string
	matcher  *regexp.Regexp
	replacer string
}

// TitleFix rewrites the capture title with the active title fixes of the core settings.
type TitleFix struct {
	fixes []titleFix
}

// NewTitleFix compiles the active title fixes. Invalid expressions are logged and skipped.
func NewTitleFix(core *settings.Core) (Processor, error) {
	if core == nil {
		return nil, fmt.Errorf("title fix needs the core settings")
	}

	t := &TitleFix{}
	for _, name := range core.ActiveTitleFixes {
		pattern, ok := core.TitleFixMatcher[name]
		if !ok || pattern == "" {
			continue
		}

		re, err := regexp.Compile(pattern)
		if err != nil {
			log.Warnf("Invalid title fix %s: %v", name, err)
			continue
		}

		t.fixes = append(t.fixes, titleFix{
			name:     name,
			matcher:  re,
			replacer: core.TitleFixReplacer[name],
		})
	}

	return t, nil
}

func (t *TitleFix) Designation() string { return "TitleFix" }
func (t *TitleFix) Description() string { return "Fix window titles" }
func (t *TitleFix) Priority() int       { return 0 }

// IsActive reports whether at least one title fix compiled.
func (t *TitleFix) IsActive() bool {
	return len(t.fixes) > 0
}

func (t *TitleFix) ProcessCapture(_ context.Context, _ *capture.Surface, details *capture.Details) (bool, error) {
	title := details.Title
	if title == "" {
		return false, nil
	}

	for _, fix := range t.fixes {
		title = fix.matcher.ReplaceAllString(title, fix.replacer)
	}

	if title == details.Title {
		return false, nil
	}

	log.Debugf("Title %q changed to %q", details.Title, title)
	details.Title = title
	return true, nil
}
