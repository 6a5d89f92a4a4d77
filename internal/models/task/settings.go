package task

import (
	"encoding/json"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SettingsID - единственный документ настроек на инсталляцию
const SettingsID = "default"

type StatusDef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

type PriorityDef struct {
	ID    Priority `json:"id"`
	Name  string   `json:"name"`
	Color string   `json:"color"`
	Order int      `json:"order"`
}

type Settings struct {
	Statuses   []StatusDef   `json:"statuses"`
	Priorities []PriorityDef `json:"priorities"`
}

// SettingsUpdate - частичное обновление верхнего уровня документа
type SettingsUpdate struct {
	Statuses   *[]StatusDef   `json:"statuses,omitempty"`
	Priorities *[]PriorityDef `json:"priorities,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		Statuses: []StatusDef{
			{ID: "backlog", Name: "Backlog", Color: "#CBD5E1", Order: 0},
			{ID: "todo", Name: "To Do", Color: "#93C5FD", Order: 1},
			{ID: "in_progress", Name: "În lucru", Color: "#FCD34D", Order: 2},
			{ID: "blocked", Name: "Blocat", Color: "#FCA5A5", Order: 3},
			{ID: "done", Name: "Finalizat", Color: "#86EFAC", Order: 4},
		},
		Priorities: []PriorityDef{
			{ID: PriorityLow, Name: "Scăzută", Color: "#94A3B8", Order: 0},
			{ID: PriorityMedium, Name: "Medie", Color: "#60A5FA", Order: 1},
			{ID: PriorityHigh, Name: "Ridicată", Color: "#F59E0B", Order: 2},
			{ID: PriorityUrgent, Name: "Urgent", Color: "#EF4444", Order: 3},
		},
	}
}

// Merge - поверхностное слияние: заданное поле заменяется целиком
func (s Settings) Merge(update SettingsUpdate) Settings {
	merged := s.Clone()
	if update.Statuses != nil {
		merged.Statuses = append([]StatusDef{}, (*update.Statuses)...)
	}
	if update.Priorities != nil {
		merged.Priorities = append([]PriorityDef{}, (*update.Priorities)...)
	}
	return merged
}

func (s Settings) Clone() Settings {
	c := Settings{}
	if s.Statuses != nil {
		c.Statuses = append([]StatusDef{}, s.Statuses...)
	}
	if s.Priorities != nil {
		c.Priorities = append([]PriorityDef{}, s.Priorities...)
	}
	return c
}

// Normalize убирает дубли по id (остаётся первое вхождение), сортирует
// и перенумеровывает order подряд начиная с 0.
func (s Settings) Normalize() Settings {
	return Settings{
		Statuses:   normalizeStatuses(s.Statuses),
		Priorities: normalizePriorities(s.Priorities),
	}
}

// Equal сравнивает сериализованные представления документов
func (s Settings) Equal(other Settings) bool {
	a, errA := json.Marshal(s)
	b, errB := json.Marshal(other)
	if errA != nil || errB != nil {
		return false
	}
	return string(a) == string(b)
}

func normalizeStatuses(statuses []StatusDef) []StatusDef {
	seen := make(map[string]struct{}, len(statuses))
	list := make([]StatusDef, 0, len(statuses))
	for _, st := range statuses {
		if st.ID == "" {
			continue
		}
		if _, ok := seen[st.ID]; ok {
			continue
		}
		seen[st.ID] = struct{}{}
		list = append(list, st)
	}

	col := collate.New(language.Und)
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Order != list[j].Order {
			return list[i].Order < list[j].Order
		}
		return col.CompareString(list[i].Name, list[j].Name) < 0
	})

	for i := range list {
		list[i].Order = i
	}
	return list
}

func normalizePriorities(priorities []PriorityDef) []PriorityDef {
	seen := make(map[Priority]struct{}, len(priorities))
	list := make([]PriorityDef, 0, len(priorities))
	for _, p := range priorities {
		if p.ID == "" {
			continue
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		list = append(list, p)
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Order < list[j].Order
	})

	for i := range list {
		list[i].Order = i
	}
	return list
}

// OrderedStatuses возвращает статусы в порядке отображения, не меняя документ
func (s Settings) OrderedStatuses() []StatusDef {
	list := append([]StatusDef{}, s.Statuses...)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Order < list[j].Order
	})
	return list
}

// InitialStatus - статус новой задачи: первый по order
func (s Settings) InitialStatus() (StatusDef, bool) {
	ordered := s.OrderedStatuses()
	if len(ordered) == 0 {
		return StatusDef{}, false
	}
	return ordered[0], true
}

type StatusKind int

const (
	StatusKnown StatusKind = iota
	StatusOrphaned
)

// StatusRef - статус задачи, сопоставленный с текущим снимком настроек.
// Orphaned означает, что id статуса был удалён из настроек.
type StatusRef struct {
	Kind StatusKind
	ID   string
	Def  StatusDef
}

func (r StatusRef) IsOrphaned() bool {
	return r.Kind == StatusOrphaned
}

func (s Settings) Resolve(statusID string) StatusRef {
	for _, st := range s.Statuses {
		if st.ID == statusID {
			return StatusRef{Kind: StatusKnown, ID: statusID, Def: st}
		}
	}
	return StatusRef{Kind: StatusOrphaned, ID: statusID}
}

func (s Settings) HasPriority(p Priority) bool {
	for _, def := range s.Priorities {
		if def.ID == p {
			return true
		}
	}
	return false
}
