// Package materials computes and applies material-slot changesets across
// a bridge round trip. A mesh reimported from the interchange format
// comes back with fresh material slots; the changeset recorded at export
// time is what lets the import pass put the original assignments back
// without clobbering slots the other side added or removed on purpose.
package materials

import (
	"sort"
	"strings"

	"github.com/meshbridge/meshbridge/pkg/logging"
	"github.com/meshbridge/meshbridge/pkg/paths"
	"github.com/meshbridge/meshbridge/pkg/types"
)

// slotKey identifies a material slot across a round trip. Index and name
// together are the identity; the material path may legitimately differ
// after reimport.
type slotKey struct {
	index int
	name  string
}

// Diff classifies material slots between a previously recorded list and a
// current one. Slots match on index and name together: a slot renamed in
// place counts as one removed and one added, so the old assignment is
// never reapplied onto a slot the producer renamed. For matching slots
// the current side's path wins. Removed slots keep their old position in
// OriginalIndex.
func Diff(previous, current []types.MaterialSlot) types.MaterialChangeset {
	prevByKey := make(map[slotKey]types.MaterialSlot, len(previous))
	for _, slot := range previous {
		prevByKey[slotKey{slot.Index, slot.Name}] = slot
	}
	curByKey := make(map[slotKey]types.MaterialSlot, len(current))
	for _, slot := range current {
		curByKey[slotKey{slot.Index, slot.Name}] = slot
	}

	cs := types.MaterialChangeset{
		Added:     []types.MaterialSlot{},
		Removed:   []types.MaterialSlot{},
		Unchanged: []types.MaterialSlot{},
	}

	for _, slot := range current {
		if _, ok := prevByKey[slotKey{slot.Index, slot.Name}]; ok {
			cs.Unchanged = append(cs.Unchanged, slot)
		} else {
			cs.Added = append(cs.Added, slot)
		}
	}
	for _, slot := range previous {
		if _, ok := curByKey[slotKey{slot.Index, slot.Name}]; !ok {
			removed := slot
			removed.OriginalIndex = slot.Index
			cs.Removed = append(cs.Removed, removed)
		}
	}

	sortSlots(cs.Added)
	sortSlots(cs.Removed)
	sortSlots(cs.Unchanged)
	return cs
}

// RestoreReport describes the outcome of reapplying a changeset.
type RestoreReport struct {
	// Restored lists unchanged slots whose material was reapplied.
	Restored []types.MaterialSlot

	// Skipped lists unchanged slots that could not be applied, e.g.
	// because their index is out of bounds for the reimported mesh.
	Skipped []types.MaterialSlot

	// Added slots need manual material assignment; they are reported,
	// never auto-resolved.
	Added []types.MaterialSlot

	// Removed slots existed before the round trip and are gone now.
	Removed []types.MaterialSlot
}

// Restore reapplies the material path of every unchanged slot onto the
// mesh at its recorded index. Slots that no longer fit the mesh are
// skipped with a warning; partial restoration is preferred over
// abandoning the remaining slots.
func Restore(editor types.MeshEditor, ref types.AssetRef, cs *types.MaterialChangeset) (*RestoreReport, error) {
	logger := logging.GetLogger("materials")
	report := &RestoreReport{}
	if cs.Empty() {
		return report, nil
	}

	count, err := editor.MaterialCount(ref)
	if err != nil {
		return nil, err
	}

	for _, slot := range cs.Unchanged {
		if slot.Index < 0 || slot.Index >= count {
			logger.Warn().
				Int("slot", slot.Index).
				Int("materialCount", count).
				Str("mesh", ref.AssetPath()).
				Msg("Material slot out of bounds, skipping")
			report.Skipped = append(report.Skipped, slot)
			continue
		}
		if slot.Path == "" {
			report.Skipped = append(report.Skipped, slot)
			continue
		}
		materialPath := qualifyPath(slot.Path)
		if err := editor.SetMaterial(ref, slot.Index, materialPath); err != nil {
			logger.Warn().Err(err).
				Int("slot", slot.Index).
				Str("material", materialPath).
				Msg("Could not restore material slot, skipping")
			report.Skipped = append(report.Skipped, slot)
			continue
		}
		logger.Debug().
			Int("slot", slot.Index).
			Str("material", materialPath).
			Msg("Restored material slot")
		report.Restored = append(report.Restored, slot)
	}

	for _, slot := range cs.Added {
		logger.Info().
			Int("slot", slot.Index).
			Str("name", slot.Name).
			Msg("New material slot added by producer, assign a material manually")
		report.Added = append(report.Added, slot)
	}
	for _, slot := range cs.Removed {
		logger.Info().
			Int("slot", slot.OriginalIndex).
			Str("name", slot.Name).
			Msg("Material slot removed by producer")
		report.Removed = append(report.Removed, slot)
	}

	return report, nil
}

// qualifyPath roots a recorded material path under the content root
// unless it is already an absolute engine or content reference.
func qualifyPath(p string) string {
	if strings.HasPrefix(p, paths.ContentRoot) || strings.HasPrefix(p, "/Engine") {
		return p
	}
	return paths.ContentRoot + paths.Normalize(p)
}

func sortSlots(slots []types.MaterialSlot) {
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Index < slots[j].Index })
}
