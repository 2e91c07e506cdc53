package repositories

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// nextDocNo generates document numbers like SO2609010001: prefix + YYMMDD +
// a 4 digit sequence that resets daily. lastNo is the highest number already
// issued for the family (empty when none).
func nextDocNo(prefix, lastNo string) string {
	currentDate := time.Now().Format("060102")

	if lastNo != "" && len(lastNo) >= len(prefix)+10 {
		lastDatePart := lastNo[len(prefix) : len(prefix)+6]
		lastSequenceStr := lastNo[len(lastNo)-4:]

		if currentDate == lastDatePart {
			lastSequenceInt, _ := strconv.Atoi(lastSequenceStr)
			return fmt.Sprintf("%s%s%04d", prefix, currentDate, lastSequenceInt+1)
		}
	}

	return fmt.Sprintf("%s%s%04d", prefix, currentDate, 1)
}

// lastDocNo fetches the latest issued number from the given column, scoped to
// the model's table.
func lastDocNo(db *gorm.DB, model interface{}, column string) (string, error) {
	var lastNo string
	err := db.Model(model).
		Order(column+" DESC").
		Limit(1).
		Pluck(column, &lastNo).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return lastNo, nil
}

func generateDocNo(db *gorm.DB, model interface{}, column, prefix string) (string, error) {
	lastNo, err := lastDocNo(db, model, column)
	if err != nil {
		return "", err
	}
	return nextDocNo(prefix, lastNo), nil
}
