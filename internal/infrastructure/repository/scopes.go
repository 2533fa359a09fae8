package repository

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BranchScope returns a GORM scope that filters by branch. Every branch-owned
// table (products, categories, invoices, held orders) queries through it so a
// register can never see another branch's rows.
func BranchScope(branchID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if branchID == uuid.Nil {
			// Fail-safe: no branch means no rows, never all rows.
			return db.Where("1 = 0")
		}
		return db.Where("branch_id = ?", branchID)
	}
}

// sortUUIDs orders ids bytewise. Batch row updates walk ids in this order so
// two overlapping batches acquire row locks in the same sequence.
func sortUUIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
}
