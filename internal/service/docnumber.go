// Package service holds small domain services shared by the use cases:
// document numbering, cooldown rules, payment signatures and location
// chain resolution.
package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"jalsetu.io/jalsetu/internal/domain"
)

// Business number prefixes.
const (
	PrefixNOC          = "NOC"
	PrefixWaterRequest = "NAM"
	PrefixExemption    = "EXM"
	PrefixForm12       = "FORM12"
)

// Counter names backing the padded sequences.
const (
	CounterWaterRequest = "water_request"
	CounterForm12       = "form12"
)

// NextSequenceNumber increments the named counter and formats a padded
// business number such as NAM-0001 or FORM12-0042. It must be called inside
// the transaction that creates the document so the increment and the insert
// commit together; the unique index on the number column backstops any
// remaining race by failing the write instead of silently overwriting.
func NextSequenceNumber(tx *gorm.DB, counterName, prefix string) (string, error) {
	res := tx.Model(&domain.Counter{}).
		Where("name = ?", counterName).
		UpdateColumn("value", gorm.Expr("value + ?", 1))
	if res.Error != nil {
		return "", fmt.Errorf("increment counter %s: %w", counterName, res.Error)
	}
	if res.RowsAffected == 0 {
		if err := tx.Create(&domain.Counter{Name: counterName, Value: 1}).Error; err != nil {
			return "", fmt.Errorf("create counter %s: %w", counterName, err)
		}
	}

	var counter domain.Counter
	if err := tx.First(&counter, "name = ?", counterName).Error; err != nil {
		return "", fmt.Errorf("read counter %s: %w", counterName, err)
	}

	return fmt.Sprintf("%s-%04d", prefix, counter.Value), nil
}

// TimeBasedNumber formats a time-plus-random business number such as
// NOC-1767263821-4F2A. Collisions are possible in principle; the unique
// index on the number column turns them into a failed write.
func TimeBasedNumber(prefix string, now time.Time) string {
	suffix := make([]byte, 2)
	if _, err := rand.Read(suffix); err != nil {
		// Fall back to the sub-second clock; uniqueness is still enforced
		// by the index.
		return fmt.Sprintf("%s-%d-%04d", prefix, now.Unix(), now.Nanosecond()%10000)
	}
	return fmt.Sprintf("%s-%d-%s", prefix, now.Unix(), strings.ToUpper(hex.EncodeToString(suffix)))
}
