package datastructure

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/dsnet/compress/bzip2"
)

const highwayPathsHeader = "igo-highwaypaths 1"

// HighwayPaths maps a highway (traffic feed way id) to the sequence of intersections it runs through.
type HighwayPaths map[int64][]Index

// WayIDs returns the highway ids in ascending order.
func (hp HighwayPaths) WayIDs() []int64 {
	ids := make([]int64, 0, len(hp))
	for id := range hp {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// WriteHighwayPaths writes one "<wayID> <v1> <v2> ..." line per highway, bzip2-compressed.
func (hp HighwayPaths) WriteHighwayPaths(filename string) error {
	return writeFileAtomic(filename, hp.writeHighwayPaths)
}

func (hp HighwayPaths) writeHighwayPaths(out io.Writer) error {
	bz, err := bzip2.NewWriter(out, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}

	w := bufio.NewWriter(bz)
	fmt.Fprintf(w, "%s\n%d\n", highwayPathsHeader, len(hp))
	for _, wayID := range hp.WayIDs() {
		fmt.Fprintf(w, "%d", wayID)
		for _, v := range hp[wayID] {
			fmt.Fprintf(w, " %d", v)
		}
		fmt.Fprintf(w, "\n")
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return bz.Close()
}

func ReadHighwayPaths(filename string) (HighwayPaths, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readHighwayPaths(f)
}

func readHighwayPaths(in io.Reader) (HighwayPaths, error) {
	bz, err := bzip2.NewReader(in, &bzip2.ReaderConfig{})
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	br := bufio.NewReader(bz)
	line, err := readLine(br)
	if err != nil {
		return nil, err
	}
	if line != highwayPathsHeader {
		return nil, corrupt("unexpected header %q", line)
	}

	line, err = readLine(br)
	if err != nil {
		return nil, err
	}
	count, err := strconv.Atoi(line)
	if err != nil {
		return nil, err
	}

	hp := make(HighwayPaths, count)
	for i := 0; i < count; i++ {
		line, err = readLine(br)
		if err != nil {
			return nil, err
		}
		ff := fields(line)
		if len(ff) == 0 {
			return nil, corrupt("empty highway path line %d", i)
		}
		wayID, err := strconv.ParseInt(ff[0], 10, 64)
		if err != nil {
			return nil, err
		}
		path := make([]Index, 0, len(ff)-1)
		for _, f := range ff[1:] {
			v, err := ParseIndex(f)
			if err != nil {
				return nil, err
			}
			path = append(path, v)
		}
		hp[wayID] = path
	}
	return hp, nil
}
