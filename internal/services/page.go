package services

import (
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
	"gorm.io/gorm"
)

// findPage counts the rows matched by query and loads one page of them.
// Scopes apply to the page load only, so preloads do not affect the count.
func findPage[M any, R any](query *gorm.DB, req dto.PageRequest, order string, convert func(*M) R, scopes ...func(*gorm.DB) *gorm.DB) (*dto.Page[R], error) {
	req = req.Normalize()
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []M
	if err := query.Scopes(scopes...).Order(order).Offset(req.Page * req.Size).Limit(req.Size).Find(&rows).Error; err != nil {
		return nil, err
	}

	content := make([]R, 0, len(rows))
	for i := range rows {
		content = append(content, convert(&rows[i]))
	}
	page := dto.NewPage(content, req.Page, req.Size, total)
	return &page, nil
}

func withMembers(db *gorm.DB) *gorm.DB {
	return db.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).Preload("Members.User")
}

// uniqueUserIDs converts request ids, dropping duplicates and non-positive values.
func uniqueUserIDs(ids []int64) []uint {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, uint(id))
	}
	return out
}
