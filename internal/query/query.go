// Package query implements the task filter and ordering engine. Both
// operations are pure functions over a fetched task set: filtering ANDs
// the supplied criteria, ordering is a stable single-key sort so that
// tasks with equal keys keep their fetch order.
package query

import (
	"cmp"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/taskbox/taskbox-api/internal/models"
)

type SortKey string

const (
	SortByPriority  SortKey = "priority"
	SortByStatus    SortKey = "status"
	SortByTitle     SortKey = "title"
	SortByDueDate   SortKey = "dueDate"
	SortByCreatedAt SortKey = "createdAt"
	SortByUpdatedAt SortKey = "updatedAt"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Rank tables for the ordinal sort keys. Values outside the enum rank 0
// so the comparison stays total over whatever is stored.
var priorityRank = map[models.TaskPriority]int{
	models.TaskPriorityHigh:   3,
	models.TaskPriorityMedium: 2,
	models.TaskPriorityLow:    1,
}

var statusRank = map[models.TaskStatus]int{
	models.TaskStatusCompleted:  3,
	models.TaskStatusInProgress: 2,
	models.TaskStatusPending:    1,
}

// Criteria holds the optional filter predicates. All set fields must
// match for a task to pass.
type Criteria struct {
	Status   models.TaskStatus
	Priority models.TaskPriority
	Search   string
}

// Matches reports whether t satisfies every set criterion. Search is a
// case-insensitive substring match against the title or the description.
func (c Criteria) Matches(t *models.Task) bool {
	if c.Status != "" && t.Status != c.Status {
		return false
	}
	if c.Priority != "" && t.Priority != c.Priority {
		return false
	}
	if c.Search != "" {
		needle := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	return true
}

// Filter returns the tasks matching c, preserving input order.
func Filter(tasks []models.Task, c Criteria) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if c.Matches(&t) {
			out = append(out, t)
		}
	}
	return out
}

// Sort orders tasks in place by key and order. The sort is stable: tasks
// whose keys compare equal keep their relative input order, with no
// secondary key. An unknown key sorts by creation time.
func Sort(tasks []models.Task, key SortKey, order SortOrder) {
	direction := -1
	if order == OrderAsc {
		direction = 1
	}

	compare := comparatorFor(key)
	sort.SliceStable(tasks, func(i, j int) bool {
		return compare(&tasks[i], &tasks[j])*direction < 0
	})
}

// Apply filters tasks by c, then orders the result.
func Apply(tasks []models.Task, c Criteria, key SortKey, order SortOrder) []models.Task {
	filtered := Filter(tasks, c)
	Sort(filtered, key, order)
	return filtered
}

func comparatorFor(key SortKey) func(a, b *models.Task) int {
	switch key {
	case SortByPriority:
		return func(a, b *models.Task) int {
			return cmp.Compare(priorityRank[a.Priority], priorityRank[b.Priority])
		}
	case SortByStatus:
		return func(a, b *models.Task) int {
			return cmp.Compare(statusRank[a.Status], statusRank[b.Status])
		}
	case SortByTitle:
		// A collator is not safe for concurrent use, so each sort
		// gets its own.
		coll := collate.New(language.Und)
		return func(a, b *models.Task) int {
			return coll.CompareString(a.Title, b.Title)
		}
	case SortByDueDate:
		return func(a, b *models.Task) int {
			return cmp.Compare(instant(a.DueDate), instant(b.DueDate))
		}
	case SortByUpdatedAt:
		return func(a, b *models.Task) int {
			return a.UpdatedAt.Compare(b.UpdatedAt)
		}
	default:
		// createdAt, and the fallback for anything unrecognized.
		return func(a, b *models.Task) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
}

// instant maps an optional date to a comparable millisecond timestamp.
// A missing due date counts as the epoch, sorting before any real date.
func instant(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}

// ListQuery is the validated form of the list endpoint's query string.
type ListQuery struct {
	Criteria Criteria
	SortBy   SortKey
	Order    SortOrder
}

// ParseListQuery validates raw query parameters against the closed enums,
// rejecting unrecognized values instead of silently defaulting. Empty
// parameters select the defaults: no filtering, sortBy=createdAt,
// order=desc.
func ParseListQuery(status, priority, search, sortBy, order string) (ListQuery, error) {
	q := ListQuery{
		SortBy: SortByCreatedAt,
		Order:  OrderDesc,
	}

	if status != "" {
		s := models.TaskStatus(status)
		if !s.Valid() {
			return ListQuery{}, fmt.Errorf("invalid status %q", status)
		}
		q.Criteria.Status = s
	}
	if priority != "" {
		p := models.TaskPriority(priority)
		if !p.Valid() {
			return ListQuery{}, fmt.Errorf("invalid priority %q", priority)
		}
		q.Criteria.Priority = p
	}
	q.Criteria.Search = search

	if sortBy != "" {
		switch k := SortKey(sortBy); k {
		case SortByPriority, SortByStatus, SortByTitle, SortByDueDate, SortByCreatedAt, SortByUpdatedAt:
			q.SortBy = k
		default:
			return ListQuery{}, fmt.Errorf("invalid sortBy %q", sortBy)
		}
	}
	if order != "" {
		switch o := SortOrder(order); o {
		case OrderAsc, OrderDesc:
			q.Order = o
		default:
			return ListQuery{}, fmt.Errorf("invalid order %q", order)
		}
	}

	return q, nil
}
