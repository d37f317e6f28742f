// Package entry assembles the events of one commit into a model.Entry,
// folding correlated detections into a single canonical event, and encodes
// entries for storage.
package entry

import "github.com/sprite-ai/refmark/internal/model"

// election is one row of the canonical-event priority table. The first row
// whose kinds are all present in a group wins; the first member of kinds[0]
// becomes canonical and is renamed to title.
type election struct {
	kinds []model.Kind
	title string
}

var elections = []election{
	{[]model.Kind{model.KindRenameAttribute, model.KindChangeAttributeType}, "Rename and Change Attribute Type"},
	{[]model.Kind{model.KindRenameAttribute}, "Rename Attribute"},
	{[]model.Kind{model.KindChangeAttributeType}, "Change Attribute Type"},
	{[]model.Kind{model.KindChangeVariableType}, "Rename and Change Variable Type"},
}

// Build groups events by correlation id, folds every group the election
// table recognises, and returns the entry with back-references attached.
// Events keep their input order; folded members stay in the list, hidden.
// Build is idempotent: running it again over its own output changes nothing.
func Build(events []*model.Event, commitID string, parents []string, time int64) *model.Entry {
	for _, members := range correlate(events) {
		if len(members) < 2 {
			continue
		}
		if canonical, title := elect(members); canonical != nil {
			fold(canonical, title, members)
		}
	}

	e := &model.Entry{
		CommitID:     commitID,
		Parents:      parents,
		Time:         time,
		Refactorings: events,
	}
	e.AttachEvents()
	return e
}

// correlate partitions events by correlation id in order of first
// appearance. Events without an id are never grouped.
func correlate(events []*model.Event) [][]*model.Event {
	index := make(map[string]int)
	var groups [][]*model.Event
	for _, ev := range events {
		if ev == nil || ev.CorrelationID == "" {
			continue
		}
		i, ok := index[ev.CorrelationID]
		if !ok {
			i = len(groups)
			index[ev.CorrelationID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], ev)
	}
	return groups
}

func elect(members []*model.Event) (*model.Event, string) {
	first := make(map[model.Kind]*model.Event)
	for _, ev := range members {
		if _, ok := first[ev.Kind]; !ok {
			first[ev.Kind] = ev
		}
	}

next:
	for _, el := range elections {
		for _, k := range el.kinds {
			if first[k] == nil {
				continue next
			}
		}
		return first[el.kinds[0]], el.title
	}
	return nil, ""
}

func fold(canonical *model.Event, title string, members []*model.Event) {
	canonical.Name = title
	for _, ev := range members {
		if ev == canonical || ev.Hidden {
			continue
		}
		canonical.Markings = append(canonical.Markings, ev.Markings...)
		ev.Hidden = true
	}
}
