// Package history keeps a record of past exports.
package history

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/snapkit-cli/snapkit/capture"
	"github.com/snapkit-cli/snapkit/filesystem"
	"github.com/snapkit-cli/snapkit/where"
)

// Limit is the number of records kept; older ones are dropped.
const Limit = 200

// Record is one export of one capture.
type Record struct {
	capture.ExportInformation
	Title string    `json:"title"`
	Time  time.Time `json:"time"`
}

var (
	cacher     *gache.Cache[[]Record]
	cacherOnce sync.Once
)

func store() *gache.Cache[[]Record] {
	cacherOnce.Do(func() {
		cacher = gache.New[[]Record](&gache.Options{
			Path:       where.History(),
			FileSystem: &filesystem.GacheFs{},
		})
	})
	return cacher
}

// Get returns every stored record, oldest first.
func Get() ([]Record, error) {
	cached, expired, err := store().Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return []Record{}, nil
	}
	return cached, nil
}

// Add stores the results of exporting the capture titled title.
func Add(title string, results ...capture.ExportInformation) error {
	if len(results) == 0 {
		return nil
	}

	records, err := Get()
	if err != nil {
		return err
	}

	now := time.Now()
	for _, result := range results {
		records = append(records, Record{ExportInformation: result, Title: title, Time: now})
	}

	if len(records) > Limit {
		records = records[len(records)-Limit:]
	}

	return store().Set(records)
}

// Clear removes every record.
func Clear() error {
	return store().Set([]Record{})
}
