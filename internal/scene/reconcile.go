package scene

// MergeContext carries the local UI state that influences reconciliation.
// EditingElementID names the element the local user is actively editing; the
// local copy of that element always survives a merge, whatever version the
// remote side carries.
type MergeContext struct {
	EditingElementID string
}

// Reconciler merges a local and a remote element set into a single
// conflict-free result. It must be pure: no I/O, no failure, no mutation of
// its inputs. The sync layer trusts its output completely.
type Reconciler func(local, remote []Element, mctx MergeContext) []Element

// Reconcile is the default last-writer-wins reconciler.
//
// The remote ordering is preserved; local elements unknown to the remote are
// appended in local order. When both sides carry an element, the higher
// Version wins; on equal versions the later Updated timestamp wins, and the
// remote copy is kept when both tie. Tombstones are ordinary elements here,
// so deletions propagate like any other edit.
func Reconcile(local, remote []Element, mctx MergeContext) []Element {
	merged := make([]Element, 0, len(remote)+len(local))
	index := make(map[string]int, len(remote))

	for _, el := range remote {
		index[el.ID] = len(merged)
		merged = append(merged, el)
	}

	for _, el := range local {
		pos, known := index[el.ID]
		if !known {
			index[el.ID] = len(merged)
			merged = append(merged, el)
			continue
		}
		if localWins(el, merged[pos], mctx) {
			merged[pos] = el
		}
	}

	return merged
}

func localWins(local, remote Element, mctx MergeContext) bool {
	if mctx.EditingElementID != "" && local.ID == mctx.EditingElementID {
		return true
	}
	if local.Version != remote.Version {
		return local.Version > remote.Version
	}
	return local.Updated > remote.Updated
}
