package traffic

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/salcc/iGo/pkg"
	"github.com/salcc/iGo/pkg/util"
	"go.uber.org/zap"
)

var ErrMalformedRecord = errors.New("malformed traffic record")

const congestionTimeLayout = "20060102150405"

// Congestion is the traffic reading of one highway.
type Congestion struct {
	WayID        int64
	Timestamp    time.Time
	CurrentState pkg.CongestionState
	PlannedState pkg.CongestionState // expected in 15 minutes
}

/*
ParseCongestions reads the congestion feed, one highway per line:

	<way id>#<YYYYmmddHHMMSS>#<current state>#<planned state>

states go from 0 (no data) to 6 (closed). timestamps are read in loc. malformed lines are logged and
skipped; a feed where no line parses at all is rejected.
*/
func ParseCongestions(r io.Reader, loc *time.Location, log *zap.Logger) (map[int64]Congestion, error) {
	if loc == nil {
		loc = time.Local
	}

	congestions := make(map[int64]Congestion)
	scanner := bufio.NewScanner(r)
	lineNumber, skipped := 0, 0
	var firstErr error
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		congestion, err := parseCongestion(line, lineNumber, loc)
		if err != nil {
			log.Warn("skipping congestion record", zap.Int("line", lineNumber), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			skipped++
			continue
		}
		congestions[congestion.WayID] = congestion
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(congestions) == 0 && skipped > 0 {
		return nil, util.WrapErrorf(firstErr, util.ErrBadParamInput, "no valid congestion record, %d skipped", skipped)
	}
	return congestions, nil
}

func parseCongestion(line string, lineNumber int, loc *time.Location) (Congestion, error) {
	ff := strings.Split(line, "#")
	if len(ff) != 4 {
		return Congestion{}, malformed(lineNumber, "expected 4 fields, got %d", len(ff))
	}

	wayID, err := strconv.ParseInt(strings.TrimSpace(ff[0]), 10, 64)
	if err != nil {
		return Congestion{}, malformed(lineNumber, "way id %q", ff[0])
	}
	timestamp, err := time.ParseInLocation(congestionTimeLayout, strings.TrimSpace(ff[1]), loc)
	if err != nil {
		return Congestion{}, malformed(lineNumber, "timestamp %q", ff[1])
	}
	current, err := parseState(ff[2])
	if err != nil {
		return Congestion{}, malformed(lineNumber, "current state %q", ff[2])
	}
	planned, err := parseState(ff[3])
	if err != nil {
		return Congestion{}, malformed(lineNumber, "planned state %q", ff[3])
	}

	return Congestion{
		WayID:        wayID,
		Timestamp:    timestamp,
		CurrentState: current,
		PlannedState: planned,
	}, nil
}

func parseState(s string) (pkg.CongestionState, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	state := pkg.CongestionState(v)
	if v < 0 || !state.Valid() {
		return 0, errors.New("state out of range")
	}
	return state, nil
}

func malformed(line int, format string, a ...interface{}) error {
	return util.WrapErrorf(ErrMalformedRecord, util.ErrBadParamInput, "line %d: "+format, append([]interface{}{line}, a...)...)
}
