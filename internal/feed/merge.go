package feed

import (
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	duplicateItemMessageConstant = "Dropping item with duplicate GUID"
	guidFieldNameConstant        = "guid"
	titleFieldNameConstant       = "title"
)

type datedItem struct {
	item      Item
	published time.Time
	parsed    bool
}

// Merge combines entry and history items, newest first. Items whose timestamp does not parse follow all
// others in descending string order. A later item repeating an earlier GUID is dropped with a warning.
func Merge(logger *zap.Logger, entryItems []Item, historyItems []Item) []Item {
	if logger == nil {
		logger = zap.NewNop()
	}

	seenGUIDs := make(map[string]struct{}, len(entryItems)+len(historyItems))
	datedItems := make([]datedItem, 0, len(entryItems)+len(historyItems))
	for _, item := range slices.Concat(entryItems, historyItems) {
		if _, seen := seenGUIDs[item.GUID]; seen {
			logger.Warn(duplicateItemMessageConstant,
				zap.String(guidFieldNameConstant, item.GUID),
				zap.String(titleFieldNameConstant, item.Title),
			)
			continue
		}
		seenGUIDs[item.GUID] = struct{}{}

		published, parseError := ParseTimestamp(item.Published)
		datedItems = append(datedItems, datedItem{item: item, published: published, parsed: parseError == nil})
	}

	slices.SortStableFunc(datedItems, compareNewestFirst)

	merged := make([]Item, 0, len(datedItems))
	for _, dated := range datedItems {
		merged = append(merged, dated.item)
	}
	return merged
}

func compareNewestFirst(left datedItem, right datedItem) int {
	switch {
	case left.parsed && right.parsed:
		return right.published.Compare(left.published)
	case left.parsed:
		return -1
	case right.parsed:
		return 1
	default:
		return strings.Compare(right.item.Published, left.item.Published)
	}
}
