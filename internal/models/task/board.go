package task

// UncategorizedColumnID - колонка для задач с удалённым из настроек статусом
const UncategorizedColumnID = "uncategorized"

type Column struct {
	Status StatusDef `json:"status"`
	Tasks  []*Task   `json:"tasks"`
}

type Board struct {
	Columns       []Column `json:"columns"`
	Uncategorized []*Task  `json:"uncategorized"`
}

// GroupByStatus раскладывает задачи по колонкам в порядке статусов.
// Порядок задач внутри колонки сохраняется.
func GroupByStatus(settings Settings, tasks []*Task) Board {
	ordered := settings.OrderedStatuses()

	board := Board{
		Columns:       make([]Column, 0, len(ordered)),
		Uncategorized: []*Task{},
	}
	index := make(map[string]int, len(ordered))
	for i, st := range ordered {
		if _, ok := index[st.ID]; !ok {
			index[st.ID] = i
		}
		board.Columns = append(board.Columns, Column{Status: st, Tasks: []*Task{}})
	}

	for _, t := range tasks {
		ref := settings.Resolve(t.Status)
		if ref.IsOrphaned() {
			board.Uncategorized = append(board.Uncategorized, t)
			continue
		}
		i := index[ref.ID]
		board.Columns[i].Tasks = append(board.Columns[i].Tasks, t)
	}

	return board
}
