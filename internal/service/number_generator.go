package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/repository"

	"gorm.io/gorm"
)

const dayLayout = "20060102"

// LatestNumberFunc returns the highest existing document number that starts
// with prefix, or "" when there is none.
type LatestNumberFunc func(tx *gorm.DB, prefix string) (string, error)

// NumberGenerator issues PREFIX-YYYYMMDD-NNNN document numbers. The sequence
// restarts at 0001 every calendar day of the server's local time zone.
type NumberGenerator struct {
	prefix string
	seq    repository.SequenceRepository
	latest LatestNumberFunc
	now    func() time.Time
}

func NewNumberGenerator(prefix string, seq repository.SequenceRepository, latest LatestNumberFunc) *NumberGenerator {
	return &NumberGenerator{prefix: prefix, seq: seq, latest: latest, now: time.Now}
}

// NextTx reserves the next number inside tx. The counter row stays locked
// until tx ends, so two creators of the same day never get the same value.
func (g *NumberGenerator) NextTx(tx *gorm.DB) (string, error) {
	day := g.now().Local().Format(dayLayout)
	dayPrefix := g.prefix + "-" + day + "-"

	floor := 0
	last, err := g.latest(tx, dayPrefix)
	if err != nil {
		return "", fmt.Errorf("read latest %s number: %w", g.prefix, err)
	}
	if n, ok := ParseDocumentSequence(last); ok {
		floor = n
	}

	n, err := g.seq.NextTx(tx, g.prefix, day, floor)
	if err != nil {
		return "", fmt.Errorf("next %s sequence: %w", g.prefix, err)
	}
	return FormatDocumentNumber(g.prefix, day, n), nil
}

// FormatDocumentNumber renders ORD-20240115-0007.
func FormatDocumentNumber(prefix, day string, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day, seq)
}

// ParseDocumentSequence extracts the trailing counter of a document number.
func ParseDocumentSequence(number string) (int, bool) {
	i := strings.LastIndexByte(number, '-')
	if i < 0 || i == len(number)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(number[i+1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
