package devserver

import (
	"fmt"
	"time"

	"github.com/jon4hz/lapinstance/pkg/lapinstance"
)

// resetAnchor is a known reset of every raid instance.
var resetAnchor = time.Date(2020, time.January, 1, 7, 0, 0, 0, time.UTC)

var resetPeriods = map[lapinstance.RaidType]time.Duration{
	lapinstance.RaidTypeMoltenCore:    7 * 24 * time.Hour,
	lapinstance.RaidTypeBlackwingLair: 7 * 24 * time.Hour,
	lapinstance.RaidTypeAhnQiraj40:    7 * 24 * time.Hour,
	lapinstance.RaidTypeNaxxramas:     7 * 24 * time.Hour,
	lapinstance.RaidTypeOnyxia:        5 * 24 * time.Hour,
	lapinstance.RaidTypeZulGurub:      3 * 24 * time.Hour,
	lapinstance.RaidTypeAhnQiraj20:    3 * 24 * time.Hour,
}

// NextReset returns the first reset of the raid instance strictly after now.
func NextReset(raidType lapinstance.RaidType, now time.Time) (time.Time, error) {
	if err := raidType.Validate(); err != nil {
		return time.Time{}, err
	}
	period, ok := resetPeriods[raidType]
	if !ok {
		return time.Time{}, fmt.Errorf("no reset period for %s", raidType)
	}

	elapsed := now.Sub(resetAnchor)
	n := elapsed / period
	if elapsed < 0 && elapsed%period != 0 {
		n--
	}
	return resetAnchor.Add((n + 1) * period), nil
}
