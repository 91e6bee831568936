package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// convertError maps driver and gorm errors onto the package sentinels
func convertError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isDuplicate(err):
		return errors.Join(ErrDuplicate, err)
	default:
		return err
	}
}

// isDuplicate catches unique violations the dialect did not translate
func isDuplicate(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry")
}

type countRow struct {
	K string
	N int64
}

// groupCount counts the rows of q per distinct value of column
func groupCount(q *gorm.DB, column string) (map[string]int64, error) {
	var rows []countRow
	if err := q.Select(column + " AS k, COUNT(*) AS n").Group(column).Scan(&rows).Error; err != nil {
		return nil, convertError(err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.K] += r.N
	}
	return out, nil
}

func paginate(q *gorm.DB, p Page) *gorm.DB {
	if p.Limit <= 0 {
		return q
	}
	return q.Offset(p.offset()).Limit(p.Limit)
}
