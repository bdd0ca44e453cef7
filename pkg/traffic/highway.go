package traffic

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/salcc/iGo/pkg/geo"
)

// Highway is a named street stretch of the traffic feed.
type Highway struct {
	WayID       int64
	Description string
	Coordinates []geo.Coordinate
}

/*
ParseHighways reads the highways CSV. the first line is a header. every row is

	<way id>,<description>,"<lon>,<lat>,<lon>,<lat>,..."
*/
func ParseHighways(r io.Reader) (map[int64]Highway, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return map[int64]Highway{}, nil
		}
		return nil, err
	}

	highways := make(map[int64]Highway)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		wayID, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			return nil, malformed(line, "way id %q", record[0])
		}

		coords, err := parseLonLatList(record[2])
		if err != nil {
			return nil, malformed(line, "%v", err)
		}

		highways[wayID] = Highway{
			WayID:       wayID,
			Description: record[1],
			Coordinates: coords,
		}
	}
	return highways, nil
}

func parseLonLatList(s string) ([]geo.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts)%2 != 0 {
		return nil, errors.New("odd number of coordinate values")
	}

	coords := make([]geo.Coordinate, 0, len(parts)/2)
	for i := 0; i < len(parts); i += 2 {
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return nil, err
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[i+1]), 64)
		if err != nil {
			return nil, err
		}
		c := geo.NewCoordinate(lat, lon)
		if !c.Valid() {
			return nil, errors.New("coordinate out of range")
		}
		coords = append(coords, c)
	}
	return coords, nil
}
