package pipeline

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// GridItem is one entry of a sensor-grid manifest: the loop-item contract
// every fan-out task iterates over.
type GridItem struct {
	FullID string `json:"full_id"`
	Count  int    `json:"count"`
}

// LoopSpec declares a fan-out: the task is instantiated once per item of
// the manifest produced by an upstream task.
type LoopSpec struct {
	// Over references the upstream output holding the JSON manifest.
	Over Source
	// SubFolder is the folder, relative to the pipeline output folder,
	// under which every instance isolates its artifacts.
	SubFolder string
	// SubPaths joins an item-specific relative path onto the base value
	// of the named parameters, e.g. "{{item.full_id}}.pts" onto a
	// sensor-grid folder.
	SubPaths map[string]string
}

// LoopInstance is one expansion of a looped task for a single manifest item.
type LoopInstance struct {
	// Name identifies the instance, e.g. "run_radiance_window_contrib/room1_grid".
	Name string
	Item GridItem
	// Workdir is the instance's isolated directory, relative to the
	// pipeline output folder. Distinct items never share a workdir.
	Workdir string
	// Params holds the fully resolved parameter values for this item.
	Params map[string]string
}

// DecodeGridItems reads and validates a sensor-grid manifest. Every item
// must carry a non-empty, path-safe full_id and a non-negative count;
// duplicate ids are rejected so two instances can never collide on disk.
func DecodeGridItems(r io.Reader) ([]GridItem, error) {
	var raw []struct {
		FullID *string `json:"full_id"`
		Count  *int    `json:"count"`
	}

	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(ErrManifestNotAList, err.Error())
	}

	items := make([]GridItem, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for i, entry := range raw {
		if entry.FullID == nil || *entry.FullID == "" {
			return nil, errors.Wrapf(ErrItemMissingField, "item %d: full_id", i)
		}
		if entry.Count == nil {
			return nil, errors.Wrapf(ErrItemMissingField, "item %d: count", i)
		}
		if *entry.Count < 0 {
			return nil, errors.Wrapf(ErrNegativeItemCount, "item %q", *entry.FullID)
		}
		if !pathSafe(*entry.FullID) {
			return nil, errors.Wrap(ErrUnsafeItemID, *entry.FullID)
		}
		if _, ok := seen[*entry.FullID]; ok {
			return nil, errors.Wrap(ErrDuplicateItemID, *entry.FullID)
		}

		seen[*entry.FullID] = struct{}{}
		items = append(items, GridItem{FullID: *entry.FullID, Count: *entry.Count})
	}

	return items, nil
}

// pathSafe reports whether the id can be used as a single path segment.
func pathSafe(id string) bool {
	if id == "." || id == ".." {
		return false
	}

	return !strings.ContainsAny(id, `/\`)
}

// itemScope returns the template variables exposed by a manifest item.
func itemScope(item GridItem) map[string]string {
	return map[string]string{
		"item.full_id": item.FullID,
		"item.count":   strconv.Itoa(item.Count),
	}
}
