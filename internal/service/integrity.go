package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-records/internal/models"
)

// dependent names a collection whose records point at a parent through key.
type dependent struct {
	collection models.Collection
	key        models.ReferenceKey
}

// cascadeRules lists, per parent collection, the dependents removed together with a
// parent record. Collections absent from the table are leaves.
var cascadeRules = map[models.Collection][]dependent{
	models.CollectionStudents: {
		{collection: models.CollectionGrades, key: models.RefStudent},
		{collection: models.CollectionAttendance, key: models.RefStudent},
	},
	models.CollectionCourses: {
		{collection: models.CollectionGrades, key: models.RefCourse},
	},
}

type cascadeTarget interface {
	removeReferencing(ctx context.Context, s *Store, key models.ReferenceKey, id string) (int, error)
}

type referencingTable[T models.Referencing] struct {
	t *table[T]
}

func (r referencingTable[T]) removeReferencing(ctx context.Context, s *Store, key models.ReferenceKey, id string) (int, error) {
	kept := make([]T, 0, len(r.t.rows))
	removed := 0
	for _, row := range r.t.rows {
		if row.Reference(key) == id {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	if removed == 0 {
		return 0, nil
	}
	if err := commit(ctx, s, r.t, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *Store) cascadeTarget(collection models.Collection) (cascadeTarget, bool) {
	switch collection {
	case models.CollectionGrades:
		return referencingTable[models.Grade]{t: &s.grades}, true
	case models.CollectionAttendance:
		return referencingTable[models.AttendanceRecord]{t: &s.attendance}, true
	default:
		return nil, false
	}
}

// cascade removes every dependent of the parent record parent/id and reports how many
// records were removed per collection. Callers hold s.mu and delete the parent
// afterwards.
func (s *Store) cascade(ctx context.Context, parent models.Collection, id string) (map[models.Collection]int, error) {
	removed := make(map[models.Collection]int)
	for _, dep := range cascadeRules[parent] {
		target, ok := s.cascadeTarget(dep.collection)
		if !ok {
			s.logger.Warn("cascade target not registered", zap.String("collection", string(dep.collection)))
			continue
		}
		n, err := target.removeReferencing(ctx, s, dep.key, id)
		if err != nil {
			return removed, err
		}
		removed[dep.collection] += n
		s.metrics.RecordCascade(string(parent), string(dep.collection), n)
	}
	if total := sumRemoved(removed); total > 0 {
		s.logger.Info("cascade delete",
			zap.String("parent", string(parent)),
			zap.String("id", id),
			zap.Any("removed", removed),
		)
	}
	return removed, nil
}

func sumRemoved(removed map[models.Collection]int) int {
	total := 0
	for _, n := range removed {
		total += n
	}
	return total
}
