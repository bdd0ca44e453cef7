package datastructure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/salcc/iGo/pkg"
	"github.com/salcc/iGo/pkg/util"
)

const turnGraphHeader = "igo-turngraph 1"

var ErrCorruptSnapshot = errors.New("corrupt snapshot")

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

/*
WriteTurnGraph writes the static turn graph together with its road network as bzip2-compressed text:

	igo-turngraph 1
	<intersections> <segments> <edges>
	<osmID> <lat> <lon>                                       per intersection
	<from> <to> <wayID> <length> <speed> <bearing> <weight>   per segment
	<tail> <head> <kind> <length> <weight> <segment>          per edge
*/
func (tg *TurnGraph) WriteTurnGraph(filename string) error {
	return writeFileAtomic(filename, tg.writeTurnGraph)
}

// writeFileAtomic writes through a temporary file next to filename and renames it into place.
func writeFileAtomic(filename string, write func(io.Writer) error) error {
	tmp := filename + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, filename)
}

func (tg *TurnGraph) writeTurnGraph(out io.Writer) error {
	bz, err := bzip2.NewWriter(out, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}

	w := bufio.NewWriter(bz)
	rn := tg.network

	fmt.Fprintf(w, "%s\n", turnGraphHeader)
	fmt.Fprintf(w, "%d %d %d\n", rn.NumberOfIntersections(), rn.NumberOfSegments(), len(tg.edges))

	for _, v := range rn.intersections {
		fmt.Fprintf(w, "%d %s %s\n", v.osmID, formatFloat(v.lat), formatFloat(v.lon))
	}

	for _, s := range rn.segments {
		fmt.Fprintf(w, "%d %d %d %s %s %s %s\n", s.from, s.to, s.wayID,
			formatFloat(s.length), formatFloat(s.speed), formatFloat(s.bearing), formatFloat(s.weight))
	}

	for _, e := range tg.edges {
		fmt.Fprintf(w, "%d %d %d %s %s %d\n", e.tail, e.head, e.kind,
			formatFloat(e.length), formatFloat(e.weight), e.segment)
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return bz.Close()
}

func ReadTurnGraph(filename string) (*TurnGraph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readTurnGraph(f)
}

func readTurnGraph(in io.Reader) (*TurnGraph, error) {
	bz, err := bzip2.NewReader(in, &bzip2.ReaderConfig{})
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	br := bufio.NewReaderSize(bz, 1<<20)

	line, err := readLine(br)
	if err != nil {
		return nil, err
	}
	if line != turnGraphHeader {
		return nil, util.WrapErrorf(ErrCorruptSnapshot, util.ErrConfiguration, "unexpected header %q", line)
	}

	line, err = readLine(br)
	if err != nil {
		return nil, err
	}
	counts, err := parseIndices(fields(line), 3)
	if err != nil {
		return nil, err
	}
	n, m, numEdges := counts[0], counts[1], counts[2]

	intersections := make([]Intersection, n)
	for v := Index(0); v < n; v++ {
		line, err = readLine(br)
		if err != nil {
			return nil, err
		}
		ff := fields(line)
		if len(ff) != 3 {
			return nil, corrupt("intersection %d", v)
		}
		osmID, err := strconv.ParseInt(ff[0], 10, 64)
		if err != nil {
			return nil, err
		}
		lat, err := util.StringToFloat64(ff[1])
		if err != nil {
			return nil, err
		}
		lon, err := util.StringToFloat64(ff[2])
		if err != nil {
			return nil, err
		}
		intersections[v] = NewIntersection(v, osmID, lat, lon)
	}

	segments := make([]Segment, m)
	for s := Index(0); s < m; s++ {
		line, err = readLine(br)
		if err != nil {
			return nil, err
		}
		ff := fields(line)
		if len(ff) != 7 {
			return nil, corrupt("segment %d", s)
		}
		ends, err := parseIndices(ff[:2], 2)
		if err != nil {
			return nil, err
		}
		if ends[0] >= n || ends[1] >= n {
			return nil, corrupt("segment %d references unknown intersection", s)
		}
		wayID, err := strconv.ParseInt(ff[2], 10, 64)
		if err != nil {
			return nil, err
		}
		values, err := parseFloats(ff[3:])
		if err != nil {
			return nil, err
		}
		segments[s] = NewSegment(s, ends[0], ends[1], wayID, values[0], values[1], values[2])
		segments[s].weight = values[3]
	}

	sorted := sort.SliceIsSorted(segments, func(i, j int) bool {
		if segments[i].from != segments[j].from {
			return segments[i].from < segments[j].from
		}
		return segments[i].to < segments[j].to
	})
	if !sorted {
		return nil, corrupt("segments are not sorted")
	}

	rn := newRoadNetwork(intersections, segments)

	tg := &TurnGraph{
		network:  rn,
		nodes:    make([]TurnNode, 0, 2*n+2*m),
		edges:    make([]TurnEdge, numEdges),
		firstOut: make([]Index, 2*n+2*m+1),
	}
	for v := Index(0); v < n; v++ {
		tg.nodes = append(tg.nodes, NewTurnNode(pkg.SOURCE, v, INVALID_INDEX))
	}
	for v := Index(0); v < n; v++ {
		tg.nodes = append(tg.nodes, NewTurnNode(pkg.SINK, v, INVALID_INDEX))
	}
	for s := Index(0); s < m; s++ {
		tg.nodes = append(tg.nodes, NewTurnNode(pkg.EXIT, segments[s].from, segments[s].to))
	}
	for s := Index(0); s < m; s++ {
		tg.nodes = append(tg.nodes, NewTurnNode(pkg.ENTRY, segments[s].to, segments[s].from))
	}

	numNodes := Index(len(tg.nodes))
	for e := Index(0); e < numEdges; e++ {
		line, err = readLine(br)
		if err != nil {
			return nil, err
		}
		ff := fields(line)
		if len(ff) != 6 {
			return nil, corrupt("edge %d", e)
		}
		ends, err := parseIndices(ff[:3], 3)
		if err != nil {
			return nil, err
		}
		tail, head, kind := ends[0], ends[1], pkg.TurnEdgeKind(ends[2])
		if tail >= numNodes || head >= numNodes || kind > pkg.STREET_EDGE {
			return nil, corrupt("edge %d out of range", e)
		}
		if e > 0 && tail < tg.edges[e-1].tail {
			return nil, corrupt("edges are not sorted by tail")
		}
		values, err := parseFloats(ff[3:5])
		if err != nil {
			return nil, err
		}
		segment, err := ParseIndex(ff[5])
		if err != nil {
			return nil, err
		}
		tg.edges[e] = NewTurnEdge(e, tail, head, kind, values[0], values[1], segment)
		tg.firstOut[tail+1]++
	}
	for u := Index(0); u < numNodes; u++ {
		tg.firstOut[u+1] += tg.firstOut[u]
	}

	return tg, nil
}

func corrupt(format string, a ...interface{}) error {
	return util.WrapErrorf(ErrCorruptSnapshot, util.ErrConfiguration, format, a...)
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", corrupt("unexpected end of file")
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func fields(s string) []string {
	return strings.Fields(s)
}

func ParseIndex(s string) (Index, error) {
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if u > math.MaxUint32 {
		return 0, fmt.Errorf("value %s overflows uint32", s)
	}
	return Index(u), nil
}

func parseIndices(ff []string, want int) ([]Index, error) {
	if len(ff) != want {
		return nil, corrupt("expected %d values, got %d", want, len(ff))
	}
	out := make([]Index, want)
	for i, f := range ff {
		v, err := ParseIndex(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseFloats(ff []string) ([]float64, error) {
	out := make([]float64, len(ff))
	for i, f := range ff {
		v, err := util.StringToFloat64(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
